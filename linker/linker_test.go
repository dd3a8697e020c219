package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tslink/tslink/linker"
)

func fileProto(name, pkg string, deps ...string) *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String(name),
		Package:    proto.String(pkg),
		Syntax:     proto.String("proto3"),
		Dependency: deps,
	}
}

func messageProto(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func refField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, typ)
	f.TypeName = proto.String(typeName)
	return f
}

func link(t *testing.T, protos ...*descriptorpb.FileDescriptorProto) (*linker.Registry, []*linker.File) {
	t.Helper()
	reg := linker.NewRegistry()
	files, err := linker.Link(reg, protos, nil)
	require.NoError(t, err)
	return reg, files
}

func TestLinkCrossFile(t *testing.T) {
	t.Parallel()
	dep := fileProto("q.proto", "q")
	dep.MessageType = []*descriptorpb.DescriptorProto{messageProto("N")}
	dep.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("Color"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("COLOR_UNSPECIFIED"), Number: proto.Int32(0)},
		},
	}}

	main := fileProto("p.proto", "p", "q.proto")
	main.MessageType = []*descriptorpb.DescriptorProto{messageProto("M",
		refField("n", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".q.N"),
		refField("color", 2, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".q.Color"),
		scalarField("id", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
	)}

	reg, files := link(t, dep, main)
	require.Len(t, files, 2)

	m := reg.Message("p.M")
	require.NotNil(t, m)
	deps := m.ParentFile().Dependencies()
	require.Len(t, deps, 1)
	assert.Equal(t, "q.proto", deps[0].Path())

	// resolved references are the registry's own objects
	assert.Same(t, reg.Message("q.N"), m.Fields()[0].Message())
	assert.Same(t, reg.Enum("q.Color"), m.Fields()[1].Enum())
	assert.Equal(t, protoreflect.MessageKind, m.Fields()[0].Kind())
	assert.Equal(t, protoreflect.EnumKind, m.Fields()[1].Kind())

	// scalar fields resolve to nothing
	assert.Nil(t, m.Fields()[2].Message())
	assert.Nil(t, m.Fields()[2].Enum())
	assert.Equal(t, protoreflect.StringKind, m.Fields()[2].Kind())
}

func TestLinkNoDependencies(t *testing.T) {
	t.Parallel()
	f := fileProto("solo.proto", "solo")
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("Only")}
	_, files := link(t, f)
	assert.Empty(t, files[0].Dependencies())
}

func TestLinkMapField(t *testing.T) {
	t.Parallel()
	entry := messageProto("LabelsEntry",
		scalarField("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		scalarField("value", 2, descriptorpb.FieldDescriptorProto_TYPE_INT64),
	)
	entry.Options = &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)}

	labels := refField("labels", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".p.M.LabelsEntry")
	labels.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()

	m := messageProto("M", labels)
	m.NestedType = []*descriptorpb.DescriptorProto{entry}

	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{m}

	reg, _ := link(t, f)
	msg := reg.Message("p.M")
	fld := msg.Fields()[0]

	assert.True(t, fld.IsMap())
	assert.False(t, fld.IsList(), "map fields are not lists even though their label is repeated")
	assert.Equal(t, protoreflect.StringKind, fld.MapKey().Kind())
	assert.Equal(t, protoreflect.Int64Kind, fld.MapValue().Kind())

	// synthetic entry messages are pruned from their owner but stay
	// addressable through the registry
	assert.Empty(t, msg.Messages())
	entryMsg := reg.Message("p.M.LabelsEntry")
	require.NotNil(t, entryMsg)
	assert.True(t, entryMsg.IsMapEntry())
	assert.Same(t, entryMsg, fld.Message())
}

func TestLinkOneof(t *testing.T) {
	t.Parallel()
	a := scalarField("a", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	a.OneofIndex = proto.Int32(0)
	b := scalarField("b", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32)
	b.OneofIndex = proto.Int32(0)
	plain := scalarField("c", 3, descriptorpb.FieldDescriptorProto_TYPE_BOOL)

	m := messageProto("M", a, b, plain)
	m.OneofDecl = []*descriptorpb.OneofDescriptorProto{{Name: proto.String("choice")}}

	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{m}

	reg, _ := link(t, f)
	msg := reg.Message("p.M")
	require.Len(t, msg.Oneofs(), 1)
	oo := msg.Oneofs()[0]

	assert.Equal(t, protoreflect.FullName("p.M.choice"), oo.FullName())
	require.Len(t, oo.Fields(), 2)
	// the oneof holds the same field objects the message does
	assert.Same(t, msg.Fields()[0], oo.Fields()[0])
	assert.Same(t, msg.Fields()[1], oo.Fields()[1])
	assert.Same(t, oo, msg.Fields()[0].ContainingOneof())
	assert.Nil(t, msg.Fields()[2].ContainingOneof())
}

func TestLinkService(t *testing.T) {
	t.Parallel()
	f := fileProto("rpc.proto", "demo.v1")
	f.MessageType = []*descriptorpb.DescriptorProto{
		messageProto("Req"), messageProto("Resp"),
	}
	f.Service = []*descriptorpb.ServiceDescriptorProto{{
		Name: proto.String("Demo"),
		Method: []*descriptorpb.MethodDescriptorProto{
			{
				Name:       proto.String("Get"),
				InputType:  proto.String(".demo.v1.Req"),
				OutputType: proto.String(".demo.v1.Resp"),
			},
			{
				Name:            proto.String("Watch"),
				InputType:       proto.String(".demo.v1.Req"),
				OutputType:      proto.String(".demo.v1.Resp"),
				ServerStreaming: proto.Bool(true),
			},
		},
	}}

	reg, _ := link(t, f)
	svc := reg.Service("demo.v1.Demo")
	require.NotNil(t, svc)
	require.Len(t, svc.Methods(), 2)

	get := svc.Methods()[0]
	assert.Equal(t, "/demo.v1.Demo/Get", get.DispatchPath())
	assert.Same(t, reg.Message("demo.v1.Req"), get.Input())
	assert.Same(t, reg.Message("demo.v1.Resp"), get.Output())
	assert.False(t, get.IsStreamingClient())
	assert.False(t, get.IsStreamingServer())

	watch := svc.Methods()[1]
	assert.True(t, watch.IsStreamingServer())
}

func TestLinkEnumValueScoping(t *testing.T) {
	t.Parallel()
	f := fileProto("p.proto", "p")
	f.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("Top"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("TOP_ZERO"), Number: proto.Int32(0)},
		},
	}}
	nested := messageProto("M")
	nested.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("Inner"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("INNER_ZERO"), Number: proto.Int32(0)},
		},
	}}
	f.MessageType = []*descriptorpb.DescriptorProto{nested}

	reg, _ := link(t, f)

	// enum values scope to the enum's enclosing declaration, not the enum
	top := reg.Enum("p.Top")
	require.NotNil(t, top)
	assert.Equal(t, protoreflect.FullName("p.TOP_ZERO"), top.Values()[0].FullName())

	inner := reg.Enum("p.M.Inner")
	require.NotNil(t, inner)
	assert.Equal(t, protoreflect.FullName("p.M.INNER_ZERO"), inner.Values()[0].FullName())
}

func TestLinkExtensions(t *testing.T) {
	t.Parallel()
	f := fileProto("ext.proto", "ext")
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("Base")}
	extField := scalarField("extra", 100, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	extField.Extendee = proto.String(".ext.Base")
	f.Extension = []*descriptorpb.FieldDescriptorProto{extField}

	reg, _ := link(t, f)
	ext := reg.Extension("ext.extra")
	require.NotNil(t, ext)
	assert.True(t, ext.IsExtension())
	assert.Same(t, reg.Message("ext.Base"), ext.Extendee())
	assert.Nil(t, ext.Parent())
}

func TestLinkGenerateFlag(t *testing.T) {
	t.Parallel()
	reg := linker.NewRegistry()
	files, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{
		fileProto("a.proto", "a"),
		fileProto("b.proto", "b"),
	}, map[string]bool{"b.proto": true})
	require.NoError(t, err)
	assert.False(t, files[0].Generate())
	assert.True(t, files[1].Generate())
}

func TestLinkDuplicateRegistration(t *testing.T) {
	t.Parallel()
	a := fileProto("a.proto", "p")
	a.MessageType = []*descriptorpb.DescriptorProto{messageProto("M")}
	b := fileProto("b.proto", "p")
	b.MessageType = []*descriptorpb.DescriptorProto{messageProto("M")}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{a, b}, nil)
	var dupErr *linker.DuplicateRegistrationError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, protoreflect.FullName("p.M"), dupErr.Name)
}

func TestLinkDuplicateFilePath(t *testing.T) {
	t.Parallel()
	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{
		fileProto("same.proto", "a"),
		fileProto("same.proto", "b"),
	}, nil)
	var dupErr *linker.DuplicateRegistrationError
	require.ErrorAs(t, err, &dupErr)
}

func TestLinkMissingName(t *testing.T) {
	t.Parallel()
	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{
		{Package: proto.String("p")},
	}, nil)
	var missErr *linker.MissingFieldError
	require.ErrorAs(t, err, &missErr)
}

func TestLinkMissingFieldNumber(t *testing.T) {
	t.Parallel()
	bad := scalarField("x", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	bad.Number = nil
	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("M", bad)}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{f}, nil)
	var missErr *linker.MissingFieldError
	require.ErrorAs(t, err, &missErr)
}

func TestLinkUnrecognizedLabel(t *testing.T) {
	t.Parallel()
	bad := scalarField("x", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	bad.Label = descriptorpb.FieldDescriptorProto_Label(5).Enum()
	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("M", bad)}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{f}, nil)
	var labelErr *linker.UnrecognizedLabelError
	require.ErrorAs(t, err, &labelErr)
	assert.Equal(t, int32(5), labelErr.Label)
}

func TestLinkOneofIndexOutOfRange(t *testing.T) {
	t.Parallel()
	bad := scalarField("x", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	bad.OneofIndex = proto.Int32(2)
	m := messageProto("M", bad)
	m.OneofDecl = []*descriptorpb.OneofDescriptorProto{{Name: proto.String("only")}}
	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{m}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{f}, nil)
	var idxErr *linker.OneofIndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, int32(2), idxErr.Index)
	assert.Equal(t, 1, idxErr.Len)
}

func TestLinkUnresolvedTypeName(t *testing.T) {
	t.Parallel()
	f := fileProto("p.proto", "p")
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("M",
		refField("x", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".nope.Missing"),
	)}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{f}, nil)
	var refErr *linker.UnresolvedReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, ".nope.Missing", refErr.Name)
}

func TestLinkMissingDependency(t *testing.T) {
	t.Parallel()
	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{
		fileProto("p.proto", "p", "absent.proto"),
	}, nil)
	var refErr *linker.UnresolvedReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "absent.proto", refErr.Name)
}

func TestLinkKindMismatch(t *testing.T) {
	t.Parallel()
	// an enum reference typed as a message must not link
	f := fileProto("p.proto", "p")
	f.EnumType = []*descriptorpb.EnumDescriptorProto{{
		Name: proto.String("E"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			{Name: proto.String("E_ZERO"), Number: proto.Int32(0)},
		},
	}}
	f.MessageType = []*descriptorpb.DescriptorProto{messageProto("M",
		refField("x", 1, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".p.E"),
	)}

	reg := linker.NewRegistry()
	_, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{f}, nil)
	var refErr *linker.UnresolvedReferenceError
	require.ErrorAs(t, err, &refErr)
}
