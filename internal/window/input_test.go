package window

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(evs []gpucontext.PointerEvent) []gpucontext.PointerEventType {
	out := make([]gpucontext.PointerEventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func TestTranslatePressDragRelease(t *testing.T) {
	var tr translator

	assert.Empty(t, tr.translate(Sample{X: 10, Y: 20}), "first sample only records the cursor")

	evs := tr.translate(Sample{X: 10, Y: 20, Pressed: true})
	require.Len(t, evs, 1)
	assert.Equal(t, gpucontext.PointerDown, evs[0].Type)
	assert.Equal(t, gpucontext.ButtonLeft, evs[0].Button)
	assert.Equal(t, gpucontext.ButtonsLeft, evs[0].Buttons)
	assert.Equal(t, 10.0, evs[0].X)
	assert.Equal(t, 20.0, evs[0].Y)

	evs = tr.translate(Sample{X: 40, Y: 60})
	require.Len(t, evs, 1)
	assert.Equal(t, gpucontext.PointerMove, evs[0].Type)
	assert.Equal(t, gpucontext.ButtonNone, evs[0].Button)
	assert.Equal(t, gpucontext.ButtonsLeft, evs[0].Buttons)

	assert.Empty(t, tr.translate(Sample{X: 40, Y: 60}), "no move without motion")

	evs = tr.translate(Sample{X: 50, Y: 60, Released: true})
	assert.Equal(t, []gpucontext.PointerEventType{gpucontext.PointerMove, gpucontext.PointerUp}, types(evs))
	assert.Equal(t, 50.0, evs[1].X)
	assert.Equal(t, gpucontext.ButtonsNone, evs[1].Buttons)
}

func TestTranslateClickInOneTick(t *testing.T) {
	var tr translator
	evs := tr.translate(Sample{X: 1, Y: 1, Pressed: true, Released: true})
	assert.Equal(t, []gpucontext.PointerEventType{gpucontext.PointerDown, gpucontext.PointerUp}, types(evs))
}

func TestTranslateIgnoresUnmatchedEdges(t *testing.T) {
	var tr translator
	assert.Empty(t, tr.translate(Sample{Released: true}))

	tr.translate(Sample{Pressed: true})
	assert.Empty(t, tr.translate(Sample{Pressed: true}), "already down")
}

func TestCancel(t *testing.T) {
	var tr translator
	assert.Nil(t, tr.cancel())

	tr.translate(Sample{X: 5, Y: 6, Pressed: true})
	evs := tr.cancel()
	require.Len(t, evs, 1)
	assert.Equal(t, gpucontext.PointerCancel, evs[0].Type)
	assert.Equal(t, 5.0, evs[0].X)
	assert.Nil(t, tr.cancel())

	evs = tr.translate(Sample{X: 5, Y: 6, Released: true})
	assert.Empty(t, evs, "release after cancel is dropped")
}
