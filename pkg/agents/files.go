// Package agents contains small reference agents operating on plain-text
// integer files. They demonstrate how to wrap a tool behind the Agent
// interface and serve as fixtures for the app and workflow tests.
package agents

import (
	"os"
	"strconv"
	"strings"
)

func readInt(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(raw)))
}

func writeInt(path string, value int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(value)), 0644)
}
