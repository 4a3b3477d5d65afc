//go:build !linux

package platform

import "fmt"

func newX11Source(string) (Source, error) {
	return nil, fmt.Errorf("x11 viewport source is only supported on linux")
}
