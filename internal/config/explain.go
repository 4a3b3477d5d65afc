package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Paths follow the YAML keys, for example:
//
//	geometry.grab_margin
//	taskbar.height
//	viewport.source
//	programs.calc.exe.title
//	start_menu.0.name
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins, then the closest enclosing file source.
	for p := path; p != ""; p = parentPath(p) {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
	}

	if name, ok := strings.CutPrefix(path, "programs."); ok {
		for builtin := range BuiltinPrograms() {
			if name == builtin || strings.HasPrefix(name, builtin+".") {
				return value, Source{Kind: SourceBuiltin, Name: builtin}, nil
			}
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func parentPath(p string) string {
	i := strings.LastIndex(p, ".")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// lookupValue walks the marshalled config. Program names contain dots, so map
// keys are matched greedily against the remaining path.
func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cur := root
	rest := path
	for rest != "" {
		switch node := cur.(type) {
		case map[string]any:
			key, next, ok := matchKey(node, rest)
			if !ok {
				return nil, fmt.Errorf("unknown config path %q", path)
			}
			cur, rest = node[key], next
		case []any:
			head, next, _ := strings.Cut(rest, ".")
			i, err := strconv.Atoi(head)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("unknown config path %q", path)
			}
			cur, rest = node[i], next
		default:
			return nil, fmt.Errorf("unknown config path %q", path)
		}
	}
	return cur, nil
}

func matchKey(m map[string]any, rest string) (key, next string, ok bool) {
	best := ""
	for k := range m {
		if (rest == k || strings.HasPrefix(rest, k+".")) && len(k) > len(best) {
			best = k
		}
	}
	if best == "" {
		return "", "", false
	}
	return best, strings.TrimPrefix(strings.TrimPrefix(rest, best), "."), true
}
