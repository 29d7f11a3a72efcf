package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./classmetrics.toml"

type cliOptions struct {
	configPath   string
	watch        bool
	history      bool
	trend        string
	trendLimit   int
	selectQuery  string
	includeTests bool
	strict       bool
	verbose      bool
	logJSON      bool
	version      bool
	args         []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("classmetrics", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.watch, "watch", false, "Rerun the analysis whenever sources change")
	fs.BoolVar(&opts.history, "history", false, "Record the run in the history database (same as db.enabled)")
	fs.StringVar(&opts.trend, "trend", "", "Print the stored metric trend of one class as TSV and exit")
	fs.IntVar(&opts.trendLimit, "trend-limit", 10, "Number of runs shown by --trend")
	fs.StringVar(&opts.selectQuery, "select", "", "Run once and print the classes matching a query, e.g. \"SELECT classes WHERE wmc > 10\"")
	fs.BoolVar(&opts.includeTests, "include-tests", false, "Analyse test sources too")
	fs.BoolVar(&opts.strict, "strict", false, "Treat files with syntax errors as file errors")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
