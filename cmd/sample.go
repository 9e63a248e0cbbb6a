package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syntaxiz/internal/problemgen"
	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print generated snippets with their taxonomy variant",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		verify, _ := cmd.Flags().GetBool("verify")
		table, _ := cmd.Flags().GetBool("table")

		out := cmd.OutOrStdout()
		if table {
			fmt.Fprint(out, problemgen.Describe())
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		checker := syntaxcheck.New()
		gen, err := newGenerator(cfg, checker)
		if err != nil {
			return err
		}
		agree := &problemgen.ParseAgreementValidator{Checker: checker}

		var disagreements int
		for i := 1; i <= n; i++ {
			p := gen.Generate()
			fmt.Fprintf(out, "#%d  %s / %s\n", i, p.Category, p.Variant)
			for _, line := range strings.Split(p.Text, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
			if verify {
				if verr := agree.Validate(p); verr != nil {
					disagreements++
					fmt.Fprintf(out, "    ✗ %s\n", verr.Error())
				} else {
					fmt.Fprintln(out, "    ✓ parser agrees")
				}
			}
		}
		if disagreements > 0 {
			return fmt.Errorf("%d of %d snippets disagree with the parser", disagreements, n)
		}
		return nil
	},
}

func init() {
	sampleCmd.Flags().IntP("count", "n", 10, "Number of snippets to print")
	sampleCmd.Flags().Bool("verify", false, "Check every snippet's declared validity against the parser")
	sampleCmd.Flags().Bool("table", false, "Print the taxonomy table instead of samples")
}
