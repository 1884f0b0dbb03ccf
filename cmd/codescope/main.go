// Command codescope drives the analyzer over a project directory:
// build the index, query definitions, render skeletons, and apply
// incremental updates.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/oxhq/codescope/analyzer"
	"github.com/oxhq/codescope/codeunit"
	"github.com/oxhq/codescope/providers/catalog"
)

var (
	bold = color.New(color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	red  = color.New(color.FgRed).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

func newAnalyzer(root string) *analyzer.Analyzer {
	registry := catalog.NewRegistry()
	return analyzer.New(analyzer.NewDirProject(root, registry))
}

func printUnits(units []codeunit.CodeUnit) {
	for _, u := range units {
		src := dim("<none>")
		if s := u.Source(); s != nil {
			src = dim(*s)
		}
		fmt.Printf("%s %s%s  %s\n", cyan(u.Kind().String()), bold(u.FQName()), u.Signature().String(), src)
	}
}

func main() {
	var root string

	rootCmd := &cobra.Command{
		Use:   "codescope",
		Short: "Tree-sitter based multi-language symbol index",
	}
	rootCmd.PersistentFlags().StringVarP(&root, "root", "r", ".", "project root directory")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Scan the project, build the symbol index, and persist it",
		Run: func(cmd *cobra.Command, args []string) {
			a := newAnalyzer(root)
			a, delta, err := a.Update(context.Background())
			if err != nil {
				fmt.Printf("%s %v\n", red("Error:"), err)
				os.Exit(1)
			}
			if err := a.SaveState(); err != nil {
				fmt.Printf("%s %v\n", red("Error:"), err)
				os.Exit(1)
			}
			fmt.Printf("%s indexed %d declarations (%d added, %d modified, %d deleted files)\n",
				bold("codescope:"), len(a.GetAllDeclarations()),
				len(delta.Added), len(delta.Modified), len(delta.Deleted))
		},
	}

	queryCmd := &cobra.Command{
		Use:   "query <fqn>",
		Short: "Look up the definitions of a fully-qualified name",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadOrBuild(root)
			units := a.GetDefinitions(args[0])
			if len(units) == 0 {
				units = a.AutocompleteDefinitions(args[0])
			}
			if len(units) == 0 {
				fmt.Printf("no definitions for %s\n", bold(args[0]))
				return
			}
			printUnits(units)
		},
	}

	skeletonCmd := &cobra.Command{
		Use:   "skeleton <fqn>",
		Short: "Render the signature-only skeleton of a declaration",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			a := loadOrBuild(root)
			text, ok := a.GetSkeleton(args[0])
			if !ok {
				fmt.Printf("no skeleton for %s\n", bold(args[0]))
				return
			}
			fmt.Println(text)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Re-scan the project and show what changed",
		Run: func(cmd *cobra.Command, args []string) {
			a := loadOrBuild(root)
			before := fqnList(a.GetAllDeclarations())

			a, delta, err := a.Update(context.Background())
			if err != nil {
				fmt.Printf("%s %v\n", red("Error:"), err)
				os.Exit(1)
			}
			after := fqnList(a.GetAllDeclarations())

			if delta.Empty() {
				fmt.Println("no changes")
				return
			}
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        before,
				B:        after,
				FromFile: "before",
				ToFile:   "after",
				Context:  1,
			})
			if diff == "" {
				fmt.Println("files changed, declaration set unchanged")
			} else {
				fmt.Print(diff)
			}
			if err := a.SaveState(); err != nil {
				fmt.Printf("%s %v\n", red("Error:"), err)
				os.Exit(1)
			}
		},
	}

	receiverCmd := &cobra.Command{
		Use:   "receiver <language> <expression>",
		Short: "Extract the call receiver of a member-access expression",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			a := newAnalyzer(root)
			recv := a.ExtractCallReceiver(args[0], args[1])
			if recv == "" {
				fmt.Println(dim("(no receiver)"))
				return
			}
			fmt.Println(recv)
		},
	}

	rootCmd.AddCommand(indexCmd, queryCmd, skeletonCmd, updateCmd, receiverCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// loadOrBuild restores persisted state when available and falls back
// to a fresh scan otherwise.
func loadOrBuild(root string) *analyzer.Analyzer {
	a := newAnalyzer(root)
	ok, err := a.LoadState()
	if err != nil {
		fmt.Printf("%s state load failed (%v), rebuilding\n", red("Warning:"), err)
	}
	if !ok {
		var uerr error
		a, _, uerr = a.Update(context.Background())
		if uerr != nil {
			fmt.Printf("%s %v\n", red("Error:"), uerr)
			os.Exit(1)
		}
	}
	return a
}

func fqnList(units []codeunit.CodeUnit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.FQName()+u.Signature().String()+"\n")
	}
	sort.Strings(out)
	return out
}
