package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/direct-connect/go-tth/filelist"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list dir",
		Short: "hashes all files in the directory and prints a DC++ file list",
	}
	fOut := listCmd.Flags().StringP("out", "o", "", "write the file list to a file")
	Root.AddCommand(listCmd)

	listCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("expected directory name")
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		list, err := filelist.Build(cmd.Context(), afero.NewOsFs(), args[0], e)
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if *fOut != "" {
			f, err := os.Create(*fOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return filelist.Encode(w, list)
	}
}
