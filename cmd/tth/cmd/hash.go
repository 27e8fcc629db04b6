package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/direct-connect/go-tth/tth"
)

// readPaths reads file paths from a text file, one per line.
// Empty lines and lines starting with '#' are ignored.
func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, sc.Err()
}

func init() {
	hashCmd := &cobra.Command{
		Use:   "hash [file ...]",
		Short: "calculates TTH of the files",
	}
	fInput := hashCmd.Flags().StringP("input", "i", "", "read file paths from a text file, one per line")
	fOut := hashCmd.Flags().StringP("out", "o", "", "append results to a file")
	fTime := hashCmd.Flags().Bool("time", true, "print time taken to hash each file")
	Root.AddCommand(hashCmd)

	hashCmd.RunE = func(cmd *cobra.Command, args []string) error {
		paths := args
		if *fInput != "" {
			f, err := os.Open(*fInput)
			if err != nil {
				return err
			}
			list, err := readPaths(f)
			f.Close()
			if err != nil {
				return err
			}
			paths = append(paths, list...)
		}
		if len(paths) == 0 {
			return errors.New("no files given")
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if *fOut != "" {
			f, err := os.OpenFile(*fOut, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				return err
			}
			defer f.Close()
			w = io.MultiWriter(w, f)
		}
		ctx := cmd.Context()
		failed := 0
		for _, path := range paths {
			start := time.Now()
			root, err := e.Root(ctx, path)
			dt := time.Since(start)
			if errors.Is(err, tth.ErrNotFound) {
				log.Println("file does not exist:", path)
				failed++
				continue
			} else if err != nil {
				if ctx.Err() != nil {
					return err
				}
				log.Println(err)
				failed++
				continue
			}
			s, err := formatHash(root)
			if err != nil {
				return err
			}
			if *fTime {
				_, err = fmt.Fprintf(w, "%s  %s\t%v\n", s, path, dt.Round(time.Millisecond))
			} else {
				_, err = fmt.Fprintf(w, "%s  %s\n", s, path)
			}
			if err != nil {
				return err
			}
		}
		if failed != 0 {
			return fmt.Errorf("failed to hash %d file(s)", failed)
		}
		return nil
	}
}
