package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/direct-connect/go-tth/tiger"
)

func init() {
	treeCmd := &cobra.Command{
		Use:   "tree file",
		Short: "prints all levels of the hash tree of the file",
	}
	fLevel := treeCmd.Flags().IntP("level", "l", -1, "print only a given level (0 is leaves)")
	Root.AddCommand(treeCmd)

	treeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("expected file name")
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		tree, err := e.Tree(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		for i, lvl := range tree.Levels() {
			if *fLevel >= 0 && i != *fLevel {
				continue
			}
			fmt.Fprintf(w, "level %d (%d):\n", i, len(lvl))
			for _, h := range lvl {
				s, err := formatHash(h)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "\t"+s)
			}
		}
		if *fLevel >= tree.Depth() {
			return fmt.Errorf("tree has only %d levels", tree.Depth())
		}
		return nil
	}

	proofCmd := &cobra.Command{
		Use:   "proof file index",
		Short: "prints an inclusion proof for a leaf of the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("expected file name and leaf index")
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return err
			}
			e, err := newEngine()
			if err != nil {
				return err
			}
			tree, err := e.Tree(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			proof, err := tree.Proof(index)
			if err != nil {
				return err
			}
			if err = tiger.VerifyProof(tree.Root(), tree.Leaves()[index], index, tree.LeafCount(), proof); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "root:\t%s\nleaf:\t%s\nleaves:\t%d\n", tree.Root(), tree.Leaves()[index], tree.LeafCount())
			for _, h := range proof {
				fmt.Fprintln(w, "\t"+h.String())
			}
			return nil
		},
	}
	Root.AddCommand(proofCmd)

	verifyCmd := &cobra.Command{
		Use:   "verify file hash",
		Short: "checks that the file has a given TTH",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("expected file name and hash")
			}
			exp, err := parseHash(args[1])
			if err != nil {
				return err
			}
			e, err := newEngine()
			if err != nil {
				return err
			}
			root, err := e.Root(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if root != exp {
				return fmt.Errorf("hash mismatch: %s vs %s", root, exp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	Root.AddCommand(verifyCmd)
}
