// Package board tracks which polygon slots hold a piece and plans the
// moves a drag gesture performs.
//
// Pieces are labelled with pick ids starting at IDOffset; the piece in
// slot s always carries the id s+IDOffset. Moving a piece therefore
// relabels it: when a swap commits, the dragged piece takes the id of
// the slot it landed on and its partner takes the id of the slot it was
// pushed to.
package board

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// IDOffset is the pick id of the piece in slot 0. Id 0 is the background
// and id 1 the board plane.
const IDOffset = 2

// Sentinel errors.
var (
	// ErrInvalidLayout is returned by New for unusable slot/piece counts.
	ErrInvalidLayout = errors.New("board: invalid layout")

	// ErrNoDestination is returned when no occupied slot other than the
	// source can receive the dragged piece.
	ErrNoDestination = errors.New("board: no valid destination")

	// ErrNoEmptySlot is returned when there is no empty slot for the
	// displaced piece.
	ErrNoEmptySlot = errors.New("board: no empty slot")

	// ErrUnknownPiece is returned for ids that do not label a piece.
	ErrUnknownPiece = errors.New("board: unknown piece")

	// ErrStaleMove is returned by CommitSwap when the board no longer
	// matches the planned move.
	ErrStaleMove = errors.New("board: move does not match board state")
)

// Move is a planned swap: the dragged piece goes from Source to Dest and
// the piece it displaces goes from Dest to PartnerDest, an empty slot.
type Move struct {
	PieceID     uint32
	Source      int
	Dest        int
	PartnerID   uint32
	PartnerDest int
}

// String implements fmt.Stringer.
func (m Move) String() string {
	return fmt.Sprintf("piece %d: %d->%d, partner %d: %d->%d",
		m.PieceID, m.Source, m.Dest, m.PartnerID, m.Dest, m.PartnerDest)
}

// Board holds the slot occupancy of one game.
//
// Board is not safe for concurrent use.
type Board struct {
	slots    []Slot
	occupant []uint32 // pick id per slot, 0 when empty
	empty    []int    // empty slot indices
	pieces   int
	rng      *rand.Rand
}

// New creates a board with n slots of the given radius and m pieces in
// slots 0..m-1. The remaining slots start empty. A nil rng uses a
// randomly seeded source.
func New(n, m int, radius float64, rng *rand.Rand) (*Board, error) {
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 slots, got %d", ErrInvalidLayout, n)
	}
	if m < 2 || m >= n {
		return nil, fmt.Errorf("%w: need 2 <= pieces < slots, got %d pieces for %d slots", ErrInvalidLayout, m, n)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	b := &Board{
		slots:    BuildSlots(n, radius),
		occupant: make([]uint32, n),
		pieces:   m,
		rng:      rng,
	}
	for i := 0; i < m; i++ {
		b.occupant[i] = Label(i)
	}
	for i := m; i < n; i++ {
		b.empty = append(b.empty, i)
	}
	return b, nil
}

// Label returns the pick id carried by a piece in the given slot.
func Label(slot int) uint32 {
	return uint32(slot + IDOffset)
}

// PieceCount returns the number of pieces, which is also the number of
// slots, counted from slot 0, that can receive a dragged piece.
func (b *Board) PieceCount() int {
	return b.pieces
}

// Slots returns the slots.
func (b *Board) Slots() []Slot {
	return b.slots
}

// Slot returns slot i.
func (b *Board) Slot(i int) Slot {
	return b.slots[i]
}

// Empty returns a copy of the empty slot indices.
func (b *Board) Empty() []int {
	return slices.Clone(b.empty)
}

// IsEmpty reports whether slot i is empty.
func (b *Board) IsEmpty(i int) bool {
	return b.occupant[i] == 0
}

// Occupant returns the id of the piece in slot i, or 0.
func (b *Board) Occupant(i int) uint32 {
	return b.occupant[i]
}

// SlotOf returns the slot holding the piece with the given id.
func (b *Board) SlotOf(id uint32) (int, bool) {
	for i, occ := range b.occupant {
		if occ != 0 && occ == id {
			return i, true
		}
	}
	return -1, false
}

// PieceIDs returns the ids of all pieces in slot order.
func (b *Board) PieceIDs() []uint32 {
	var ids []uint32
	for _, occ := range b.occupant {
		if occ != 0 {
			ids = append(ids, occ)
		}
	}
	return ids
}

// Plan picks a destination and a partner destination for the piece with
// the given id. Destinations are drawn from the occupied slots among the
// first PieceCount slots. The board is not modified.
func (b *Board) Plan(id uint32) (Move, error) {
	src, ok := b.SlotOf(id)
	if !ok {
		return Move{}, fmt.Errorf("%w: %d", ErrUnknownPiece, id)
	}
	dest, err := PickDestination(b.rng, b.pieces, src, b.empty)
	if err != nil {
		return Move{}, err
	}
	partnerDest, err := PickEmptyDestination(b.rng, b.empty)
	if err != nil {
		return Move{}, err
	}
	return Move{
		PieceID:     id,
		Source:      src,
		Dest:        dest,
		PartnerID:   b.occupant[dest],
		PartnerDest: partnerDest,
	}, nil
}

// CommitSwap applies a planned move. The dragged piece lands on Dest and
// takes the partner's id; the partner lands on PartnerDest and takes
// that slot's id; Source becomes empty in place of PartnerDest.
func (b *Board) CommitSwap(m Move) error {
	if err := b.check(m); err != nil {
		return err
	}
	idx := slices.Index(b.empty, m.PartnerDest)
	b.empty[idx] = m.Source

	b.occupant[m.Source] = 0
	b.occupant[m.Dest] = Label(m.Dest)
	b.occupant[m.PartnerDest] = Label(m.PartnerDest)
	return nil
}

func (b *Board) check(m Move) error {
	n := len(b.slots)
	for _, s := range []int{m.Source, m.Dest, m.PartnerDest} {
		if s < 0 || s >= n {
			return fmt.Errorf("%w: slot %d out of range", ErrStaleMove, s)
		}
	}
	switch {
	case m.Source == m.Dest:
		return fmt.Errorf("%w: source equals destination", ErrStaleMove)
	case b.occupant[m.Source] != m.PieceID:
		return fmt.Errorf("%w: slot %d holds %d, not %d", ErrStaleMove, m.Source, b.occupant[m.Source], m.PieceID)
	case b.occupant[m.Dest] != m.PartnerID || m.PartnerID == 0:
		return fmt.Errorf("%w: slot %d holds %d, not %d", ErrStaleMove, m.Dest, b.occupant[m.Dest], m.PartnerID)
	case !b.IsEmpty(m.PartnerDest):
		return fmt.Errorf("%w: slot %d is not empty", ErrStaleMove, m.PartnerDest)
	}
	return nil
}

// Validate checks that every slot is either occupied or listed as empty,
// never both, and that each piece carries its slot's label.
func (b *Board) Validate() error {
	seen := make([]bool, len(b.slots))
	for _, s := range b.empty {
		if s < 0 || s >= len(b.slots) {
			return fmt.Errorf("board: empty slot %d out of range", s)
		}
		if seen[s] {
			return fmt.Errorf("board: slot %d listed twice as empty", s)
		}
		if b.occupant[s] != 0 {
			return fmt.Errorf("board: slot %d is both empty and occupied", s)
		}
		seen[s] = true
	}
	for i, occ := range b.occupant {
		if occ == 0 && !seen[i] {
			return fmt.Errorf("board: slot %d is neither empty nor occupied", i)
		}
		if occ != 0 && occ != Label(i) {
			return fmt.Errorf("board: slot %d holds id %d", i, occ)
		}
	}
	return nil
}

// PickDestination chooses uniformly among the slots in [0, occupiedCount)
// that differ from current and are not excluded. Slots at or above
// occupiedCount are never chosen, even once a swap has filled them.
func PickDestination(rng *rand.Rand, occupiedCount, current int, excluded []int) (int, error) {
	candidates := make([]int, 0, max(occupiedCount, 0))
	for i := 0; i < occupiedCount; i++ {
		if i != current && !slices.Contains(excluded, i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1, ErrNoDestination
	}
	return candidates[rng.IntN(len(candidates))], nil
}

// PickEmptyDestination chooses uniformly among the empty slots.
func PickEmptyDestination(rng *rand.Rand, empty []int) (int, error) {
	if len(empty) == 0 {
		return -1, ErrNoEmptySlot
	}
	return empty[rng.IntN(len(empty))], nil
}
