package cov

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/tools/cover"
)

// DumpProfile writes profiles to w in the standard cover profile format,
// ready to be consumed by `go tool cover`.
func DumpProfile(profiles []*cover.Profile, w io.Writer) error {
	if len(profiles) == 0 {
		return errors.New("cannot write an empty profile")
	}

	if _, err := io.WriteString(w, "mode: "+profiles[0].Mode+"\n"); err != nil {
		return err
	}

	for _, profile := range profiles {
		for _, b := range profile.Blocks {
			_, err := fmt.Fprintf(w, "%s:%d.%d,%d.%d %d %d\n",
				profile.FileName, b.StartLine, b.StartCol, b.EndLine, b.EndCol, b.NumStmt, b.Count)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
