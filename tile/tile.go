// Package tile manages the grid of render tiles a session works
// through: their lifecycle, processing order, resumable-chunk sample
// ranges, and the 3x3 neighbor mapping a denoiser reads from.
package tile

// State is a tile's position in its lifecycle: Pending -> Rendering ->
// (Done | NeedDenoise -> Denoising -> Done).
type State int

const (
	Pending State = iota
	Rendering
	NeedDenoise
	Denoising
	Done
)

func (s State) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Rendering:
		return "Rendering"
	case NeedDenoise:
		return "NeedDenoise"
	case Denoising:
		return "Denoising"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Task is the kind of device work a tile is currently queued for.
type Task int

const (
	TaskRender Task = iota
	TaskDenoise
)

// AnyDevice is the preferred-device sentinel meaning "no device
// affinity yet" — the first call to NextTile for a Pending tile pins
// it to whichever device asks for it, for as long as the tile's buffer
// needs to stay resident on that device (progressive refine).
const AnyDevice = -1

// Tile is one rectangular region of the target image together with its
// current lifecycle state and the device it's pinned to, if any.
type Tile struct {
	Index int
	X, Y  int
	W, H  int

	StartSample int
	NumSamples  int
	Resolution  int

	State          State
	Task           Task
	PreferredDevice int
}
