package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Trust is clamped after every memory, so the ledger sum is not the trust value.
func TestAddMemory_IncrementalClampRegression(t *testing.T) {
	b := &Bond{ID: "f1", Role: RoleFriend, Trust: 95, Alive: true, Status: StatusActive}

	require.NoError(t, AddMemory(b, MemorySharedMilestone, 30)) // +10
	assert.Equal(t, 100, b.Trust)

	require.NoError(t, AddMemory(b, MemoryLetDown, 31)) // -10
	require.NoError(t, AddMemory(b, MemoryLetDown, 31)) // -10
	assert.Equal(t, 80, b.Trust, "incremental clamp: 95 -> 100 -> 90 -> 80")

	sum := 95
	for _, m := range b.Memories {
		sum += m.Impact
	}
	assert.Equal(t, 85, sum, "recomputing from the ledger gives a different number")
	assert.NotEqual(t, sum, b.Trust)
}

func TestAddMemory_ClampsAtZero(t *testing.T) {
	b := &Bond{Trust: 10}
	require.NoError(t, AddMemory(b, MemoryBetrayedMe, 20))
	assert.Equal(t, 0, b.Trust)

	require.NoError(t, AddMemory(b, MemoryApologized, 21))
	assert.Equal(t, 3, b.Trust)
	assert.Len(t, b.Memories, 2)
	assert.Equal(t, Memory{Kind: MemoryBetrayedMe, Impact: -25, Age: 20}, b.Memories[0])
}

func TestAddMemory_UnknownKind(t *testing.T) {
	b := &Bond{Trust: 50}
	err := AddMemory(b, MemoryKind("telepathy"), 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownMemory))
	assert.Equal(t, 50, b.Trust)
	assert.Empty(t, b.Memories)
}

func TestBond_AddCloseness(t *testing.T) {
	b := &Bond{Closeness: 98}
	b.AddCloseness(5)
	assert.Equal(t, 100, b.Closeness)
	b.AddCloseness(-150)
	assert.Equal(t, 0, b.Closeness)
}

func TestRelationships_AllOrderAndFind(t *testing.T) {
	r := Relationships{
		Partner:  &Bond{ID: "p", Role: RolePartner},
		Children: []*Bond{{ID: "c1", Role: RoleChild}},
		Father:   &Bond{ID: "dad", Role: RoleParent},
		Mother:   &Bond{ID: "mom", Role: RoleParent},
		Siblings: []*Bond{{ID: "s1", Role: RoleSibling}},
		Friends:  []*Bond{{ID: "f1", Role: RoleFriend}},
		Pets:     []*Bond{{ID: "pet1", Role: RolePet}},
	}

	var ids []string
	for _, b := range r.All() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"p", "c1", "mom", "dad", "s1", "f1", "pet1"}, ids)

	assert.Equal(t, "f1", r.Find("f1").ID)
	assert.Nil(t, r.Find("nobody"))
	assert.Nil(t, r.Find(""))
	assert.Len(t, r.ByRole(RoleParent), 2)
	assert.False(t, r.HasPartner(), "partner is not alive/active")
}
