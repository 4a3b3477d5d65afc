package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/run"
	"github.com/1broseidon/winshell/internal/taskbar"
	"github.com/1broseidon/winshell/internal/window"
)

// ViewportSource names where the daemon reads the screen size from.
type ViewportSource string

const (
	ViewportFixed    ViewportSource = "fixed"    // Width/Height from config.
	ViewportX11      ViewportSource = "x11"      // Active monitor work area.
	ViewportTerminal ViewportSource = "terminal" // Controlling terminal size in cells times cell size.
)

// GeometryConfig holds the clamp margins and drag tuning.
type GeometryConfig struct {
	geometry.Limits `yaml:",inline"`
	DragThreshold   int `yaml:"drag_threshold"`
}

// AnimationConfig controls window transitions.
type AnimationConfig struct {
	DurationMS int `yaml:"duration_ms"`
}

// Duration returns the transition length.
func (a AnimationConfig) Duration() time.Duration {
	return time.Duration(a.DurationMS) * time.Millisecond
}

// ViewportConfig configures the viewport source.
type ViewportConfig struct {
	Source         ViewportSource `yaml:"source"`
	Width          int            `yaml:"width"`
	Height         int            `yaml:"height"`
	PollIntervalMS int            `yaml:"poll_interval_ms"`
	CellWidth      int            `yaml:"cell_width"`
	CellHeight     int            `yaml:"cell_height"`
	Display        string         `yaml:"display,omitempty"`
}

// PollInterval returns how often the daemon re-reads the viewport.
func (v ViewportConfig) PollInterval() time.Duration {
	return time.Duration(v.PollIntervalMS) * time.Millisecond
}

// Fixed returns the configured viewport size.
func (v ViewportConfig) Fixed() geometry.Viewport {
	return geometry.Viewport{Width: v.Width, Height: v.Height}
}

// ProgramConfig declares a program window. Nil geometry means Auto: centered,
// or sized from the intrinsic size.
type ProgramConfig struct {
	Title           string `yaml:"title"`
	Icon            string `yaml:"icon,omitempty"`
	X               *int   `yaml:"x,omitempty"`
	Y               *int   `yaml:"y,omitempty"`
	Width           *int   `yaml:"width,omitempty"`
	Height          *int   `yaml:"height,omitempty"`
	IntrinsicWidth  int    `yaml:"intrinsic_width,omitempty"`
	IntrinsicHeight int    `yaml:"intrinsic_height,omitempty"`
	Resizable       bool   `yaml:"resizable,omitempty"`
	MinWidth        int    `yaml:"min_width,omitempty"`
	MinHeight       int    `yaml:"min_height,omitempty"`
	Maximized       bool   `yaml:"maximized,omitempty"`
	Disabled        bool   `yaml:"disabled,omitempty"`
	// Deferred programs register once the session loop is running, so
	// launches requested during startup wait in the open queue.
	Deferred bool `yaml:"deferred,omitempty"`
}

// Props converts the declaration into window props for the program name.
func (p ProgramConfig) Props(name string) window.Props {
	orAuto := func(v *int) int {
		if v == nil {
			return geometry.Auto
		}
		return *v
	}
	title := p.Title
	if title == "" {
		title = name
	}
	return window.Props{
		ID:        name,
		Title:     title,
		Icon:      p.Icon,
		X:         orAuto(p.X),
		Y:         orAuto(p.Y),
		Width:     orAuto(p.Width),
		Height:    orAuto(p.Height),
		Resizable: p.Resizable,
		MinWidth:  p.MinWidth,
		MinHeight: p.MinHeight,
		Maximized: p.Maximized,
	}
}

// Intrinsic returns the content size reported to the measure pass.
func (p ProgramConfig) Intrinsic() geometry.Size {
	return geometry.Size{Width: p.IntrinsicWidth, Height: p.IntrinsicHeight}
}

// LoggingConfig controls the daemon's structured logger.
type LoggingConfig struct {
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path; empty logs to stderr
	File string `yaml:"file,omitempty"`
}

// DaemonConfig tunes the daemon's background loops.
type DaemonConfig struct {
	ReflowIntervalMS int `yaml:"reflow_interval_ms"`
}

// ReflowInterval returns how often the taskbar is reflowed.
func (d DaemonConfig) ReflowInterval() time.Duration {
	return time.Duration(d.ReflowIntervalMS) * time.Millisecond
}

// LauncherConfig selects the external picker used by the start menu
// launcher and the global hotkey that opens it.
type LauncherConfig struct {
	// Backend is one of auto, rofi, fuzzel, wofi, dmenu
	Backend string `yaml:"backend"`
	// Hotkey is an X11 key sequence such as "Mod4-space"; empty disables it
	Hotkey string `yaml:"hotkey,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	Include      IncludeList              `yaml:"include,omitempty"`
	Geometry     GeometryConfig           `yaml:"geometry"`
	Taskbar      taskbar.Layout           `yaml:"taskbar"`
	Animation    AnimationConfig          `yaml:"animation"`
	Viewport     ViewportConfig           `yaml:"viewport"`
	Programs     map[string]ProgramConfig `yaml:"programs"`
	DesktopIcons []run.DesktopIcon        `yaml:"desktop_icons"`
	StartMenu    []menu.Spec              `yaml:"start_menu"`
	Logging      LoggingConfig            `yaml:"logging,omitempty"`
	Daemon       DaemonConfig             `yaml:"daemon"`
	Launcher     LauncherConfig           `yaml:"launcher"`
}

func DefaultConfig() *Config {
	return &Config{
		Geometry: GeometryConfig{
			Limits:        geometry.DefaultLimits(),
			DragThreshold: window.DefaultDragThreshold,
		},
		Taskbar: taskbar.DefaultLayout(),
		Animation: AnimationConfig{
			DurationMS: int(window.DefaultAnimationDuration / time.Millisecond),
		},
		Viewport: ViewportConfig{
			Source:         ViewportFixed,
			Width:          1024,
			Height:         768,
			PollIntervalMS: 1000,
			CellWidth:      8,
			CellHeight:     16,
		},
		Programs:     BuiltinPrograms(),
		DesktopIcons: BuiltinDesktopIcons(),
		StartMenu:    BuiltinStartMenu(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Daemon: DaemonConfig{
			ReflowIntervalMS: 500,
		},
		Launcher: LauncherConfig{
			Backend: "auto",
		},
	}
}

// ProgramNames returns enabled program names, sorted.
func (c *Config) ProgramNames() []string {
	names := make([]string, 0, len(c.Programs))
	for name, p := range c.Programs {
		if p.Disabled {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Include = nil
	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	g := c.Geometry
	if g.GrabMargin < 0 || g.RightMargin < 0 || g.BottomReserve < 0 {
		return &ValidationError{Path: "geometry", Err: fmt.Errorf("margins must be >= 0")}
	}
	if g.MinWidth <= 0 {
		return &ValidationError{Path: "geometry.min_width", Err: fmt.Errorf("min_width must be > 0")}
	}
	if g.MinHeight <= 0 {
		return &ValidationError{Path: "geometry.min_height", Err: fmt.Errorf("min_height must be > 0")}
	}
	if g.DragThreshold < 0 {
		return &ValidationError{Path: "geometry.drag_threshold", Err: fmt.Errorf("drag_threshold must be >= 0")}
	}

	t := c.Taskbar
	if t.Height <= 0 {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("height must be > 0")}
	}
	if t.ButtonMaxWidth <= 0 {
		return &ValidationError{Path: "taskbar.button_max_width", Err: fmt.Errorf("button_max_width must be > 0")}
	}
	if t.Gap < 0 || t.Padding < 0 || t.StartWidth < 0 || t.SeparatorWidth < 0 || t.TrayWidth < 0 {
		return &ValidationError{Path: "taskbar", Err: fmt.Errorf("taskbar metrics must be >= 0")}
	}

	if c.Animation.DurationMS < 0 {
		return &ValidationError{Path: "animation.duration_ms", Err: fmt.Errorf("duration_ms must be >= 0")}
	}

	switch c.Viewport.Source {
	case ViewportFixed, ViewportX11, ViewportTerminal:
	default:
		return &ValidationError{Path: "viewport.source", Err: fmt.Errorf("source must be one of: fixed, x11, terminal")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("width and height must be > 0")}
	}
	if c.Viewport.Source == ViewportTerminal && (c.Viewport.CellWidth <= 0 || c.Viewport.CellHeight <= 0) {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("cell_width and cell_height must be > 0 for the terminal source")}
	}
	if c.Viewport.PollIntervalMS <= 0 {
		return &ValidationError{Path: "viewport.poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}

	if c.Programs == nil {
		return &ValidationError{Path: "programs", Err: fmt.Errorf("programs must not be null")}
	}
	for name, p := range c.Programs {
		path := "programs." + name
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "programs", Err: fmt.Errorf("programs contains an empty name")}
		}
		if name == run.ProgramName {
			return &ValidationError{Path: path, Err: fmt.Errorf("%q is reserved for the Run dialog", name)}
		}
		for field, v := range map[string]*int{"width": p.Width, "height": p.Height} {
			if v != nil && *v <= 0 {
				return &ValidationError{Path: path + "." + field, Err: fmt.Errorf("%s must be > 0 (omit for automatic sizing)", field)}
			}
		}
		if p.MinWidth < 0 || p.MinHeight < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("min_width/min_height must be >= 0")}
		}
		if p.IntrinsicWidth < 0 || p.IntrinsicHeight < 0 {
			return &ValidationError{Path: path, Err: fmt.Errorf("intrinsic_width/intrinsic_height must be >= 0")}
		}
	}

	switch strings.ToLower(strings.TrimSpace(c.Launcher.Backend)) {
	case "", "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "launcher.backend", Err: fmt.Errorf("backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}

	for i, icon := range c.DesktopIcons {
		if strings.TrimSpace(icon.Name) == "" {
			return &ValidationError{Path: fmt.Sprintf("desktop_icons[%d].name", i), Err: fmt.Errorf("name is required")}
		}
	}
	if err := validateMenu("start_menu", c.StartMenu); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Daemon.ReflowIntervalMS <= 0 {
		return &ValidationError{Path: "daemon.reflow_interval_ms", Err: fmt.Errorf("reflow_interval_ms must be > 0")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func validateMenu(path string, specs []menu.Spec) error {
	for i, s := range specs {
		if s.IsSeparator() {
			continue
		}
		p := fmt.Sprintf("%s[%d]", path, i)
		if strings.TrimSpace(s.Name) == "" {
			return &ValidationError{Path: p + ".name", Err: fmt.Errorf("name is required")}
		}
		if len(s.Children) > 0 && len(s.Launch) > 0 {
			return &ValidationError{Path: p, Err: fmt.Errorf("an entry cannot both launch a program and open a submenu")}
		}
		if err := validateMenu(p+".children", s.Children); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string

	known := func(name string) bool {
		if name == run.ProgramName {
			return true
		}
		p, ok := c.Programs[name]
		return ok && !p.Disabled
	}

	var walk func(specs []menu.Spec)
	walk = func(specs []menu.Spec) {
		for _, s := range specs {
			if len(s.Launch) > 0 && !known(s.Launch[0]) {
				warnings = append(warnings, fmt.Sprintf("start_menu entry %q launches unknown program %q", s.Name, s.Launch[0]))
			}
			walk(s.Children)
		}
	}
	walk(c.StartMenu)

	for _, icon := range c.DesktopIcons {
		if len(icon.Launch) > 0 && !known(icon.Launch[0]) {
			warnings = append(warnings, fmt.Sprintf("desktop icon %q launches unknown program %q", icon.Name, icon.Launch[0]))
		}
	}
	return warnings
}
