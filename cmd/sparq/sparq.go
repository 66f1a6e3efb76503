package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparq-dev/sparq/engine/rdfio"
	"github.com/sparq-dev/sparq/engine/trigo"
	"github.com/sparq-dev/sparq/format"
	"github.com/sparq-dev/sparq/internal"
	"github.com/sparq-dev/sparq/qlog"
	"github.com/sparq-dev/sparq/version"
)

const (
	KeyInputFormat  = "input_format"
	KeyOutputFormat = "output_format"
)

func buildString() string {
	s := version.Version + " (" + version.GitHash + ")"
	if version.BuildDate != "" {
		s = fmt.Sprint(s, " built ", version.BuildDate)
	}
	return s
}

// NewCmd creates the command
func NewCmd() *cobra.Command {
	var (
		fileQuery bool
		noStdin   bool
		quiet     bool
		verbose   int
	)

	cmd := &cobra.Command{
		Use:   "sparq [flags] [query | file ...]",
		Short: "Run SPARQL queries and updates over RDF files and stdin.",
		Long: `sparq loads RDF from files and stdin into an in-memory dataset, runs one
SPARQL query or update against it, and writes the result to stdout.

Each file loads into a named graph derived from its path; stdin loads
into the default graph. Prefix declarations found in the data are
prepended to the query, first declaration of a label wins. With no query
at all the dataset is simply dumped, which turns sparq into a format
converter:

	sparq -o nq < data.ttl`,
		Version:       buildString(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quiet {
				qlog.Quiet()
			}
			qlog.SetV(verbose)
			opts := internal.Options{
				Args:       args,
				InputName:  viper.GetString(KeyInputFormat),
				OutputName: viper.GetString(KeyOutputFormat),
				FileQuery:  fileQuery,
				NoStdin:    noStdin,
			}
			eng := internal.Engine{
				Loader:     rdfio.New(),
				Querier:    trigo.New(),
				Serializer: rdfio.New(),
			}
			return internal.Run(cmd.OutOrStdout(), opts, eng)
		},
	}

	names := strings.Join(format.Names(), `", "`)
	cmd.Flags().StringP("input-format", "i", "", `input RDF format, overriding file suffix detection (stdin defaults to "trig")`)
	cmd.Flags().StringP("output-format", "o", "", `output format ("`+names+`"; graph results default to "trig", query results to "tsv")`)
	cmd.Flags().BoolVarP(&fileQuery, "file-query", "f", false, "treat all positional arguments as files; the last .rq file supplies the query")
	cmd.Flags().BoolVarP(&noStdin, "no-stdin", "n", false, `never read data from stdin unless "-" is given as a file`)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide all log output below errors")
	cmd.Flags().IntVar(&verbose, "verbose", 0, "log verbosity level")
	viper.BindPFlag(KeyInputFormat, cmd.Flags().Lookup("input-format"))
	viper.BindPFlag(KeyOutputFormat, cmd.Flags().Lookup("output-format"))

	return cmd
}

func main() {
	viper.SetEnvPrefix("sparq")
	viper.AutomaticEnv()
	cmd := NewCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sparq: %v\n", err)
		os.Exit(1)
	}
}
