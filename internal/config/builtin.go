package config

import (
	"github.com/1broseidon/winshell/internal/menu"
	"github.com/1broseidon/winshell/internal/run"
)

func intPtr(v int) *int { return &v }

// BuiltinPrograms returns the stock program catalog.
//
// Users can override any entry or add new ones under programs: in YAML.
func BuiltinPrograms() map[string]ProgramConfig {
	return map[string]ProgramConfig{
		"calc.exe": {
			Title:  "Calculator",
			Icon:   "calc",
			Width:  intPtr(254),
			Height: intPtr(246),
		},
		"notepad.exe": {
			Title:     "Untitled - Notepad",
			Icon:      "notepad",
			X:         intPtr(100),
			Y:         intPtr(100),
			Width:     intPtr(400),
			Height:    intPtr(300),
			Resizable: true,
			MinWidth:  100,
			MinHeight: 100,
		},
		"winmine.exe": {
			Title:           "Minesweeper",
			Icon:            "minesweeper",
			IntrinsicWidth:  164,
			IntrinsicHeight: 251,
		},
		"sol.exe": {
			Title:           "Solitaire",
			Icon:            "solitaire",
			X:               intPtr(10),
			Y:               intPtr(10),
			IntrinsicWidth:  640,
			IntrinsicHeight: 480,
		},
		"iexplore.exe": {
			Title:           "Microsoft Internet Explorer",
			Icon:            "iexplore",
			IntrinsicWidth:  800,
			IntrinsicHeight: 600,
			Resizable:       true,
			MinWidth:        300,
			MinHeight:       300,
		},
		"pinball.exe": {
			Title:           "3D Pinball for Windows - Space Cadet",
			Icon:            "pinball",
			IntrinsicWidth:  600,
			IntrinsicHeight: 437,
		},
		"doom.exe": {
			Title:           "Doom",
			Icon:            "doom",
			IntrinsicWidth:  640,
			IntrinsicHeight: 400,
		},
	}
}

// BuiltinDesktopIcons returns the stock desktop shortcuts.
func BuiltinDesktopIcons() []run.DesktopIcon {
	return []run.DesktopIcon{
		{Name: "Internet Explorer", Icon: "iexplore", Launch: []string{"iexplore.exe"}},
		{Name: "My Profile.html", Icon: "iexplore-document", Launch: []string{"iexplore.exe", `C:\WINDOWS\Desktop\My Profile.html`}},
		{Name: "test.txt", Icon: "notepad-document", Launch: []string{"notepad.exe", `C:\WINDOWS\Desktop\test.txt`}},
	}
}

// BuiltinStartMenu returns the stock start menu.
func BuiltinStartMenu() []menu.Spec {
	return []menu.Spec{
		{Name: "Programs", Icon: "programs", Children: []menu.Spec{
			{Name: "Accessories", Icon: "programs-small", Children: []menu.Spec{
				{Name: "Games", Icon: "programs-small", Children: []menu.Spec{
					{Name: "Minesweeper", Icon: "minesweeper", Launch: []string{"winmine.exe"}},
					{Name: "Solitaire", Icon: "solitaire", Launch: []string{"sol.exe"}},
					{Name: "Pinball", Icon: "pinball", Launch: []string{"pinball.exe"}},
				}},
				{Name: "Calculator", Icon: "calc", Launch: []string{"calc.exe"}},
				{Name: "Notepad", Icon: "notepad", Launch: []string{"notepad.exe"}},
			}},
			{Name: "Internet Explorer", Icon: "iexplore", Launch: []string{"iexplore.exe"}},
		}},
		{Name: "Favorites", Icon: "favorites", Disabled: true},
		{Name: "Documents", Icon: "documents", Disabled: true},
		{Name: "Settings", Icon: "settings", Disabled: true},
		{Separator: true},
		{Name: "Run...", Icon: "run", Launch: []string{run.ProgramName}},
	}
}
