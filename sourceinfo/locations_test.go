package sourceinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

func TestCommentsLookup(t *testing.T) {
	t.Parallel()
	info := &descriptorpb.SourceCodeInfo{
		Location: []*descriptorpb.SourceCodeInfo_Location{
			{
				Path:                    []int32{4, 0},
				LeadingComments:         proto.String(" A message.\n"),
				TrailingComments:        proto.String(" trailing\n"),
				LeadingDetachedComments: []string{" detached one\n", " detached two\n"},
			},
			{
				Path:            []int32{4, 0, 2, 0},
				LeadingComments: proto.String(" A field.\n"),
			},
		},
	}
	locs := NewLocations(info)

	c := locs.Comments(protoreflect.SourcePath{4, 0})
	assert.Equal(t, " A message.\n", c.Leading)
	assert.Equal(t, " trailing\n", c.Trailing)
	assert.Equal(t, []string{" detached one\n", " detached two\n"}, c.LeadingDetached)

	c = locs.Comments(protoreflect.SourcePath{4, 0, 2, 0})
	assert.Equal(t, " A field.\n", c.Leading)
	assert.Empty(t, c.Trailing)
}

func TestCommentsMiss(t *testing.T) {
	t.Parallel()
	locs := NewLocations(&descriptorpb.SourceCodeInfo{
		Location: []*descriptorpb.SourceCodeInfo_Location{
			{Path: []int32{4, 0}, LeadingComments: proto.String("x")},
		},
	})
	assert.Equal(t, Comments{}, locs.Comments(protoreflect.SourcePath{4, 1}))
	assert.Equal(t, Comments{}, locs.Comments(nil))
}

func TestCommentsNilInfo(t *testing.T) {
	t.Parallel()
	locs := NewLocations(nil)
	assert.Equal(t, Comments{}, locs.Comments(protoreflect.SourcePath{4, 0}))
}

func TestCommentsFirstLocationWins(t *testing.T) {
	t.Parallel()
	// descriptor.proto allows several locations per path; comment lookup
	// uses the first
	locs := NewLocations(&descriptorpb.SourceCodeInfo{
		Location: []*descriptorpb.SourceCodeInfo_Location{
			{Path: []int32{4, 0}, LeadingComments: proto.String("first")},
			{Path: []int32{4, 0}, LeadingComments: proto.String("second")},
		},
	})
	assert.Equal(t, "first", locs.Comments(protoreflect.SourcePath{4, 0}).Leading)
}

func TestPathKeyDistinguishesBoundaries(t *testing.T) {
	t.Parallel()
	// {1, 23} and {12, 3} must not collide
	locs := NewLocations(&descriptorpb.SourceCodeInfo{
		Location: []*descriptorpb.SourceCodeInfo_Location{
			{Path: []int32{1, 23}, LeadingComments: proto.String("a")},
			{Path: []int32{12, 3}, LeadingComments: proto.String("b")},
		},
	})
	assert.Equal(t, "a", locs.Comments(protoreflect.SourcePath{1, 23}).Leading)
	assert.Equal(t, "b", locs.Comments(protoreflect.SourcePath{12, 3}).Leading)
}
