package window

import (
	"time"

	"github.com/1broseidon/winshell/internal/geometry"
)

// Lifecycle is the open/close state of a controller.
type Lifecycle int

const (
	// Closed means no record is registered.
	Closed Lifecycle = iota
	// Opening means the window is waiting for its measure-then-place pass.
	Opening
	// Open means the record is registered and the window is interactive.
	Open
)

// String returns the string representation of the lifecycle
func (l Lifecycle) String() string {
	switch l {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Phase represents the current phase of a pointer interaction
type Phase int

const (
	// PhaseIdle means no drag or resize is in progress
	PhaseIdle Phase = iota
	// PhasePendingMove means the title bar is pressed but the pointer has not crossed the drag threshold
	PhasePendingMove
	// PhaseMoving means the window is being dragged; only the preview moves
	PhaseMoving
	// PhaseResizing means an edge or corner handle is being dragged
	PhaseResizing
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingMove:
		return "pending-move"
	case PhaseMoving:
		return "moving"
	case PhaseResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Animation tags a transition the host should play.
type Animation int

const (
	AnimNone Animation = iota
	// AnimMinimize shrinks the window into its taskbar button.
	AnimMinimize
	// AnimRestore grows the window back out of its taskbar button.
	AnimRestore
	// AnimMaximizeClip is the simple clip played when maximizing.
	AnimMaximizeClip
	// AnimUnmaximize is the shrink played when leaving the maximized state.
	AnimUnmaximize
)

// String returns the string representation of the animation
func (a Animation) String() string {
	switch a {
	case AnimMinimize:
		return "minimize"
	case AnimRestore:
		return "restore"
	case AnimMaximizeClip:
		return "maximize"
	case AnimUnmaximize:
		return "unmaximize"
	default:
		return "none"
	}
}

// AnimationState is what the host needs to render window transitions.
type AnimationState struct {
	// Restore is the minimize/restore facet.
	Restore Animation
	// Size is the maximize/unmaximize facet.
	Size Animation
	// Duration is zero while dragging and for one tick after a committed move or resize.
	Duration time.Duration
	// TaskbarX and TaskbarWidth locate the taskbar button the minimize animation converges on.
	TaskbarX     int
	TaskbarWidth int
}

// Control is one of the title bar buttons.
type Control int

const (
	ControlMinimize Control = iota
	ControlMaximize
	ControlRestore
	ControlClose
)

// String returns the string representation of the control
func (c Control) String() string {
	switch c {
	case ControlMinimize:
		return "minimize"
	case ControlMaximize:
		return "maximize"
	case ControlRestore:
		return "restore"
	case ControlClose:
		return "close"
	default:
		return "unknown"
	}
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// TargetKind names the part of a window a pointer event landed on.
type TargetKind int

const (
	TargetContent TargetKind = iota
	TargetTitleBar
	TargetControl
	TargetResizeHandle
)

// Target is the part of a window under the pointer.
type Target struct {
	Kind      TargetKind
	Control   Control
	Direction geometry.Direction
}

// TitleBar targets the draggable title bar.
func TitleBar() Target { return Target{Kind: TargetTitleBar} }

// Content targets the program-supplied content area.
func Content() Target { return Target{Kind: TargetContent} }

// ControlButton targets a title bar button.
func ControlButton(c Control) Target { return Target{Kind: TargetControl, Control: c} }

// ResizeHandle targets one of the eight resize handles.
func ResizeHandle(dir geometry.Direction) Target {
	return Target{Kind: TargetResizeHandle, Direction: dir}
}

// Status is passed to content renderers so they can react to drags and focus.
type Status struct {
	Resizing bool
	Focused  bool
}
