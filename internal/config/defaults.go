package config

import "time"

const (
	// DefaultInputExt is the extension of fixture input documents
	DefaultInputExt = "yaml"
	// DefaultExpectedExt is the extension of expected literal output files
	DefaultExpectedExt = "txt"
	// DefaultErrorExt is the extension of expected error substring files
	DefaultErrorExt = "error"
	// DefaultDumpFlag is the encoder flag selecting the dump mode
	DefaultDumpFlag = "-d"
	// DefaultTimeout bounds every encoder invocation
	DefaultTimeout = 60 * time.Second
	// DefaultFormatName is shown in the run header
	DefaultFormatName = "STYML"
	// DefaultResultsFileBase is the results file name, without extension
	DefaultResultsFileBase = "cth-results"
	// DefaultResultsFormat is the results file encoding
	DefaultResultsFormat = FormatJSON
	// DefaultOutputDir is where the list and failures commands look for results
	DefaultOutputDir = "."
)

// Results file encodings
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Database defaults, used when CTH_DB_* variables are not set
const (
	DefaultDBHost = "127.0.0.1"
	DefaultDBPort = "3306"
	DefaultDBUser = "root"
	DefaultDBName = "cth"
)

// EnvPrefix prefixes every environment variable the harness reads
const EnvPrefix = "CTH_"
