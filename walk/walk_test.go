package walk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/tslink/tslink/linker"
	"github.com/tslink/tslink/walk"
)

func linkedFile(t *testing.T) *linker.File {
	t.Helper()
	fdp := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("zoo.proto"),
		Package: proto.String("zoo"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Animal"),
			Field: []*descriptorpb.FieldDescriptorProto{
				{
					Name:   proto.String("name"),
					Number: proto.Int32(1),
					Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
				},
			},
			NestedType: []*descriptorpb.DescriptorProto{{
				Name: proto.String("Tag"),
			}},
			EnumType: []*descriptorpb.EnumDescriptorProto{{
				Name: proto.String("Kind"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("KIND_UNSPECIFIED"), Number: proto.Int32(0)},
				},
			}},
		}},
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Habitat"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("HABITAT_UNSPECIFIED"), Number: proto.Int32(0)},
			},
		}},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Keeper"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       proto.String("Feed"),
				InputType:  proto.String(".zoo.Animal"),
				OutputType: proto.String(".zoo.Animal"),
			}},
		}},
	}
	reg := linker.NewRegistry()
	files, err := linker.Link(reg, []*descriptorpb.FileDescriptorProto{fdp}, nil)
	require.NoError(t, err)
	return files[0]
}

func TestDeclarationsOrder(t *testing.T) {
	t.Parallel()
	f := linkedFile(t)

	var visited []string
	err := walk.Declarations(f, func(d linker.Declaration) error {
		visited = append(visited, string(d.FullName()))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"zoo.Animal",
		"zoo.Animal.name",
		"zoo.Animal.Tag",
		"zoo.Animal.Kind",
		"zoo.Animal.KIND_UNSPECIFIED", // enum values scope to the enum's enclosing declaration
		"zoo.Habitat",
		"zoo.HABITAT_UNSPECIFIED",
		"zoo.Keeper",
		"zoo.Keeper.Feed",
	}, visited)
}

func TestDeclarationsStopsOnError(t *testing.T) {
	t.Parallel()
	f := linkedFile(t)

	sentinel := errors.New("stop")
	var visited int
	err := walk.Declarations(f, func(d linker.Declaration) error {
		visited++
		if _, ok := d.(*linker.Enum); ok {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 4, visited, "walk must stop at the first nested enum")
}

func TestDeclarationsEnterAndExit(t *testing.T) {
	t.Parallel()
	f := linkedFile(t)

	var events []string
	err := walk.DeclarationsEnterAndExit(f,
		func(d linker.Declaration) error {
			events = append(events, "enter "+string(d.FullName()))
			return nil
		},
		func(d linker.Declaration) error {
			events = append(events, "exit "+string(d.FullName()))
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"enter zoo.Animal",
		"enter zoo.Animal.name",
		"enter zoo.Animal.Tag",
		"exit zoo.Animal.Tag",
		"enter zoo.Animal.Kind",
		"enter zoo.Animal.KIND_UNSPECIFIED",
		"exit zoo.Animal.Kind",
		"exit zoo.Animal",
		"enter zoo.Habitat",
		"enter zoo.HABITAT_UNSPECIFIED",
		"exit zoo.Habitat",
		"enter zoo.Keeper",
		"enter zoo.Keeper.Feed",
		"exit zoo.Keeper",
	}, events)
}
