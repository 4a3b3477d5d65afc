package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winshell/internal/geometry"
	"github.com/1broseidon/winshell/internal/ipc"
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/shell"
)

// parseFlags parses args and reports the exit code to use when parsing
// stops the command (0 for --help).
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

func newFlagSet(name, usage, desc string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winshell "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, desc)
		fs.PrintDefaults()
	}
	return fs
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func runWindows(args []string) int {
	fs := newFlagSet("windows", "windows [--json|--yaml]", "List open windows in creation order.")
	asJSON := fs.Bool("json", false, "Print the full snapshot as JSON")
	asYAML := fs.Bool("yaml", false, "Print the full snapshot as YAML")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	snap, err := ipc.NewClient().ListWindows()
	if err != nil {
		return fail(err)
	}

	switch {
	case *asJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fail(err)
		}
	case *asYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return fail(err)
		}
		fmt.Print(string(data))
	default:
		printWindows(os.Stdout, snap)
	}
	return 0
}

// printWindows renders a snapshot as an aligned table.
func printWindows(w io.Writer, snap *shell.Snapshot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tX\tY\tWIDTH\tHEIGHT\tSTATE\tRANK")
	for _, win := range snap.Windows {
		r := win.Layout
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\n",
			win.ID, win.Title, r.X, r.Y, r.Width, r.Height, windowState(win), rankString(win.Rank))
	}
	tw.Flush()

	if snap.RunError != "" {
		fmt.Fprintf(w, "\nrun error: %s\n", snap.RunError)
	}
}

func windowState(w shell.WindowInfo) string {
	var parts []string
	if w.Active {
		parts = append(parts, "active")
	}
	if w.Minimized {
		parts = append(parts, "minimized")
	}
	if w.Maximized {
		parts = append(parts, "maximized")
	}
	if w.Phase != "" {
		parts = append(parts, w.Phase)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func rankString(rank int) string {
	if rank == 0 {
		return "-"
	}
	return strconv.Itoa(rank)
}

func runPrograms(args []string) int {
	fs := newFlagSet("programs", "programs", "List registered programs and queued open requests.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	progs, err := ipc.NewClient().ListPrograms()
	if err != nil {
		return fail(err)
	}
	for _, name := range progs.Programs {
		fmt.Println(name)
	}
	for _, name := range progs.Queued {
		fmt.Printf("%s (queued)\n", name)
	}
	return 0
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "open [--queue] <program> [args...]", "Open a registered program.")
	queue := fs.Bool("queue", false, "Hold the request until the program registers")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "open requires <program>")
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	err := ipc.NewClient().OpenProgram(name, fs.Args()[1:], *queue)
	if errors.Is(err, shell.ErrUnknownProgram) {
		fmt.Fprintf(os.Stderr, "unknown program %q (see 'winshell programs', or pass --queue)\n", name)
		return 1
	}
	if err != nil {
		return fail(err)
	}
	return 0
}

func runRun(args []string) int {
	fs := newFlagSet("run", "run <command line>", "Submit a command line as typed into the Run dialog.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	line := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(line) == "" {
		fmt.Fprintln(os.Stderr, "run requires a command line")
		fs.Usage()
		return 2
	}

	res, err := ipc.NewClient().Run(line)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("started %s", res.Program)
	if len(res.Args) > 0 {
		fmt.Printf(" %s", strings.Join(res.Args, " "))
	}
	fmt.Println()
	return 0
}

func runWindowAction(action shell.Action, args []string) int {
	name := string(action)
	fs := newFlagSet(name, name+" <window-id>", "Apply '"+name+"' to a window.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one <window-id>\n", name)
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().WindowAction(fs.Arg(0), action); err != nil {
		return fail(err)
	}
	return 0
}

func printRect(win *ipc.WindowData) {
	r := win.Rect
	fmt.Printf("%s: %d,%d %dx%d\n", win.ID, r.X, r.Y, r.Width, r.Height)
}

func runMove(args []string) int {
	fs := newFlagSet("move", "move <window-id> <x> <y>", "Move a window; the result is clamped so the title bar stays reachable.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "x and y must be integers")
		return 2
	}

	win, err := ipc.NewClient().MoveWindow(fs.Arg(0), x, y)
	if err != nil {
		return fail(err)
	}
	printRect(win)
	return 0
}

func runResize(args []string) int {
	fs := newFlagSet("resize", "resize <window-id> <n|s|e|w|ne|nw|se|sw> <dx> <dy>", "Resize a window by dragging an edge or corner.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 4 {
		fs.Usage()
		return 2
	}
	dir, err := geometry.ParseDirection(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	dx, errX := strconv.Atoi(fs.Arg(2))
	dy, errY := strconv.Atoi(fs.Arg(3))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "dx and dy must be integers")
		return 2
	}

	win, err := ipc.NewClient().ResizeWindow(fs.Arg(0), dir, dx, dy)
	if err != nil {
		return fail(err)
	}
	printRect(win)
	return 0
}

func runTaskbar(args []string) int {
	fs := newFlagSet("taskbar", "taskbar <window-id>", "Click a window's taskbar button.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().TaskbarClick(fs.Arg(0)); err != nil {
		return fail(err)
	}
	return 0
}

func printMenuUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winshell menu list [--json]")
	fmt.Fprintln(w, "  winshell menu select <label> [<label>...]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Labels may also be given as one 'Programs/Accessories/Notepad' path.")
}

func runMenu(args []string) int {
	if len(args) == 0 {
		printMenuUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		fs := newFlagSet("menu list", "menu list [--json]", "Show the start menu tree.")
		asJSON := fs.Bool("json", false, "Output as JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		data, err := ipc.NewClient().Menu()
		if err != nil {
			return fail(err)
		}
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(data.Rows); err != nil {
				return fail(err)
			}
			return 0
		}
		printMenu(os.Stdout, data.Rows)
		return 0

	case "select":
		fs := newFlagSet("menu select", "menu select <label>...", "Select a start menu item by its label path.")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		path := menuPath(fs.Args())
		if len(path) == 0 {
			fs.Usage()
			return 2
		}
		if err := ipc.NewClient().MenuSelect(path); err != nil {
			return fail(err)
		}
		return 0

	case "help", "-h", "--help":
		printMenuUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown menu command: %s\n\n", args[0])
		printMenuUsage(os.Stderr)
		return 2
	}
}

// menuPath accepts either separate labels or a single slash-joined path.
func menuPath(args []string) []string {
	if len(args) == 1 && strings.Contains(args[0], "/") {
		args = strings.Split(args[0], "/")
	}
	var path []string
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			path = append(path, a)
		}
	}
	return path
}

func printMenu(w io.Writer, rows []menu.Row) {
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		if r.Separator {
			fmt.Fprintf(w, "%s----\n", indent)
			continue
		}
		line := indent + r.Label
		if r.Shortcut != "" {
			line += "  [" + r.Shortcut + "]"
		}
		if r.Disabled {
			line += "  (disabled)"
		}
		fmt.Fprintln(w, line)
	}
}

func runViewport(args []string) int {
	fs := newFlagSet("viewport", "viewport <width> <height>", "Set the desktop size; windows are re-clamped.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	width, errW := strconv.Atoi(fs.Arg(0))
	height, errH := strconv.Atoi(fs.Arg(1))
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		fmt.Fprintln(os.Stderr, "width and height must be positive integers")
		return 2
	}

	data, err := ipc.NewClient().SetViewport(width, height)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("viewport: %dx%d (changed: %v)\n", data.Viewport.Width, data.Viewport.Height, data.Changed)
	return 0
}
