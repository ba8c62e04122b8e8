package board

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func TestBuildSlotsPentagon(t *testing.T) {
	slots := BuildSlots(5, 0.5)
	require.Len(t, slots, 5)

	assert.Equal(t, mgl64.Vec3{0, 0.5, 0}, slots[0].Position)
	for i, s := range slots {
		angle := 2 * math.Pi * float64(i) / 5
		want := mgl64.Vec3{-0.5 * math.Sin(angle), 0.5 * math.Cos(angle), 0}
		assert.Equal(t, i, s.Index)
		assert.True(t, s.Position.ApproxEqualThreshold(want, 1e-5), "slot %d: %v want %v", i, s.Position, want)
		assert.InDelta(t, 0.5, s.Position.Len(), 1e-9)
	}
	// Counter-clockwise from the top: slot 1 is on the left.
	assert.Less(t, slots[1].Position.X(), 0.0)
}

func TestBuildSlotsSnapsNearZero(t *testing.T) {
	slots := BuildSlots(4, 0.5)
	want := []mgl64.Vec3{{0, 0.5, 0}, {-0.5, 0, 0}, {0, -0.5, 0}, {0.5, 0, 0}}
	for i, s := range slots {
		assert.Equal(t, want[i], s.Position, "slot %d", i)
	}
	assert.Nil(t, BuildSlots(0, 1))
	assert.Equal(t, []float64{0, 0.5, 0, -0.5, 0, 0, 0, -0.5, 0, 0.5, 0, 0}, Positions(slots))
}

func TestNewLayout(t *testing.T) {
	b, err := New(5, 4, DefaultRadius, newRand(1))
	require.NoError(t, err)

	assert.Equal(t, []int{4}, b.Empty())
	assert.Equal(t, []uint32{2, 3, 4, 5}, b.PieceIDs())
	slot, ok := b.SlotOf(2)
	require.True(t, ok)
	assert.Equal(t, 0, slot)
	assert.True(t, b.IsEmpty(4))
	require.NoError(t, b.Validate())

	for _, tc := range [][2]int{{2, 1}, {5, 5}, {5, 1}, {5, 7}} {
		_, err := New(tc[0], tc[1], DefaultRadius, nil)
		assert.ErrorIs(t, err, ErrInvalidLayout, "n=%d m=%d", tc[0], tc[1])
	}
}

func TestPickDestinationExcludes(t *testing.T) {
	r := newRand(3)
	counts := map[int]int{}
	for i := 0; i < 3000; i++ {
		d, err := PickDestination(r, 6, 1, []int{4, 5})
		require.NoError(t, err)
		counts[d]++
	}
	assert.NotContains(t, counts, 1)
	assert.NotContains(t, counts, 4)
	assert.NotContains(t, counts, 5)
	for _, d := range []int{0, 2, 3} {
		assert.InDelta(t, 1000, counts[d], 150, "slot %d", d)
	}
}

func TestPickDestinationUnsatisfiable(t *testing.T) {
	_, err := PickDestination(newRand(1), 3, 0, []int{1, 2})
	assert.ErrorIs(t, err, ErrNoDestination)

	_, err = PickDestination(newRand(1), 1, 0, nil)
	assert.ErrorIs(t, err, ErrNoDestination)
}

func TestPickEmptyDestination(t *testing.T) {
	_, err := PickEmptyDestination(newRand(1), nil)
	assert.ErrorIs(t, err, ErrNoEmptySlot)

	r := newRand(5)
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		d, err := PickEmptyDestination(r, []int{3, 7})
		require.NoError(t, err)
		seen[d] = true
	}
	assert.Equal(t, map[int]bool{3: true, 7: true}, seen)
}

func TestPlanAndCommit(t *testing.T) {
	b, err := New(5, 4, DefaultRadius, newRand(9))
	require.NoError(t, err)

	m, err := b.Plan(2)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Source)
	assert.NotEqual(t, 0, m.Dest)
	assert.False(t, b.IsEmpty(m.Dest))
	assert.Equal(t, 4, m.PartnerDest)
	assert.Equal(t, Label(m.Dest), m.PartnerID)

	// Planning never touches the board.
	assert.Equal(t, []int{4}, b.Empty())

	require.NoError(t, b.CommitSwap(m))
	assert.Equal(t, []int{0}, b.Empty())
	assert.True(t, b.IsEmpty(0))
	assert.Equal(t, Label(m.Dest), b.Occupant(m.Dest))
	assert.Equal(t, Label(4), b.Occupant(4))
	require.NoError(t, b.Validate())

	_, ok := b.SlotOf(2)
	assert.False(t, ok, "id 2 labels slot 0, which is now empty")

	// Replaying the same move is rejected.
	assert.ErrorIs(t, b.CommitSwap(m), ErrStaleMove)
}

func TestPlanKeepsDestinationsBelowPieceCount(t *testing.T) {
	b, err := New(5, 4, DefaultRadius, newRand(9))
	require.NoError(t, err)
	m, err := b.Plan(Label(0))
	require.NoError(t, err)
	require.NoError(t, b.CommitSwap(m))

	// Slot 4 holds the partner now but stays out of reach.
	require.Equal(t, Label(4), b.Occupant(4))
	assert.Equal(t, []int{0}, b.Empty())

	for i := 0; i < 1000; i++ {
		for _, id := range b.PieceIDs() {
			m, err := b.Plan(id)
			require.NoError(t, err)
			assert.Less(t, m.Dest, 4, "piece %d", id)
			assert.NotEqual(t, 0, m.Dest)
		}
	}
}

func TestPlanNoDestination(t *testing.T) {
	b, err := New(6, 3, DefaultRadius, newRand(1))
	require.NoError(t, err)

	// 0 -> 1, partner to 3; then 1 -> 2, partner to 4. Only slot 2 is
	// left in reach, and it holds the piece being planned.
	require.NoError(t, b.CommitSwap(Move{PieceID: 2, Source: 0, Dest: 1, PartnerID: 3, PartnerDest: 3}))
	require.NoError(t, b.CommitSwap(Move{PieceID: 3, Source: 1, Dest: 2, PartnerID: 4, PartnerDest: 4}))
	require.NoError(t, b.Validate())

	_, err = b.Plan(Label(2))
	assert.ErrorIs(t, err, ErrNoDestination)

	m, err := b.Plan(Label(3))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Dest)
}

func TestPlanUnknownPiece(t *testing.T) {
	b, err := New(5, 4, DefaultRadius, newRand(1))
	require.NoError(t, err)
	_, err = b.Plan(6)
	assert.ErrorIs(t, err, ErrUnknownPiece)
	_, err = b.Plan(0)
	assert.ErrorIs(t, err, ErrUnknownPiece)
}

func TestCommitRejectsBadMoves(t *testing.T) {
	b, err := New(5, 3, DefaultRadius, newRand(1))
	require.NoError(t, err)

	tests := []struct {
		name string
		m    Move
	}{
		{"out of range", Move{PieceID: 2, Source: 0, Dest: 9, PartnerID: 3, PartnerDest: 3}},
		{"same slot", Move{PieceID: 2, Source: 0, Dest: 0, PartnerID: 2, PartnerDest: 3}},
		{"wrong piece", Move{PieceID: 3, Source: 0, Dest: 1, PartnerID: 3, PartnerDest: 3}},
		{"empty destination", Move{PieceID: 2, Source: 0, Dest: 3, PartnerID: 0, PartnerDest: 4}},
		{"occupied partner destination", Move{PieceID: 2, Source: 0, Dest: 1, PartnerID: 3, PartnerDest: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, b.CommitSwap(tt.m), ErrStaleMove)
			assert.NoError(t, b.Validate())
		})
	}
}

func TestRandomMovesKeepPartition(t *testing.T) {
	b, err := New(7, 4, DefaultRadius, newRand(42))
	require.NoError(t, err)
	r := newRand(43)
	for i := 0; i < 500; i++ {
		ids := b.PieceIDs()
		require.Len(t, ids, 4)
		m, err := b.Plan(ids[r.IntN(len(ids))])
		if errors.Is(err, ErrNoDestination) {
			continue
		}
		require.NoError(t, err)
		require.Less(t, m.Dest, b.PieceCount())
		require.NoError(t, b.CommitSwap(m))
		require.NoError(t, b.Validate())
		require.Len(t, b.Empty(), 3)
	}
}

func TestMoveString(t *testing.T) {
	m := Move{PieceID: 2, Source: 0, Dest: 1, PartnerID: 3, PartnerDest: 4}
	assert.Equal(t, "piece 2: 0->1, partner 3: 1->4", m.String())
}
