package types

// CLIArgs represents the command-line arguments.
// Pointer fields are only set when the matching flag was given explicitly,
// so they can override values coming from the configuration file.
type CLIArgs struct {
	ConfigFile        string
	WorkDir           string
	OutputDir         string
	ReportName        string
	ReportType        []string
	Converter         string
	Encoding          string
	KeepTemp          *bool
	StrictAccountKeys *bool
	S3Bucket          string
	S3Prefix          string
	Profile           string
	Verbose           bool
	PrintConfig       bool
}
