package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const sampleJSON = `{
  "translations": [
    {
      "category": "Networking",
      "patterns": ["say_hello"],
      "print": "client -> server : sayHello",
      "duplicates": "remove_continuous",
      "pair": {"pairswith": "server -> client", "error": "server -> client : ERROR no response"}
    },
    {
      "category": "Networking",
      "patterns": ["server_response"],
      "print": "server -> client : Today is ${1} and ${2}",
      "variables": [
        {"startswith": "is a ", "endswith": " day"},
        {"startswith": "of ", "endswith": " possibly"}
      ]
    },
    {
      "category": "State",
      "patterns": ["start_routine"],
      "print": "note over client : state",
      "variables": [{"startswith": "state=", "endswith": ", entering"}]
    },
    {
      "category": "State",
      "patterns": ["heartbeat"],
      "print": "note over client : heartbeat x${count}",
      "duplicates": "count"
    }
  ],
  "disable_category": [],
  "wrap_text_pre": ["@startuml", "skinparam dpi 300"],
  "wrap_text_post": ["@enduml"],
  "blacklist": ["Do not translate"],
  "delete_lines": ["Delete this line", "2017.*slow"],
  "replace_words": {"Today's": "Today"},
  "pairs": [
    {"source": "client -> server : connect", "pairswith": "server -> client : accepted", "error": "ERROR: connect not accepted"}
  ],
  "auto_new_line": true,
  "translation_file": "${fileDirname}/${fileBasenameNoExtension}_seq.txt",
  "backup_file": "${fileDirname}/backup/${fileBasename}",
  "execute": [
    "java -jar plantuml.jar ${fileDirname}/${fileBasenameNoExtension}_seq.txt"
  ]
}
`

const sampleYAML = `translations:
  - category: Networking
    patterns: [say_hello]
    print: "client -> server : sayHello"
    duplicates: remove_continuous
    pair:
      pairswith: "server -> client"
      error: "server -> client : ERROR no response"
  - category: Networking
    patterns: [server_response]
    print: "server -> client : Today is ${1} and ${2}"
    variables:
      - {startswith: "is a ", endswith: " day"}
      - {startswith: "of ", endswith: " possibly"}
  - category: State
    patterns: [heartbeat]
    print: "note over client : heartbeat x${count}"
    duplicates: count
wrap_text_pre: ["@startuml"]
wrap_text_post: ["@enduml"]
blacklist: [Do not translate]
delete_lines: [Delete this line, "2017.*slow"]
replace_words:
  "Today's": Today
auto_new_line: true
translation_file: "${fileDirname}/${fileBasenameNoExtension}_seq.txt"
backup_file: "${fileDirname}/backup/${fileBasename}"
execute:
  - "java -jar plantuml.jar ${fileDirname}/${fileBasenameNoExtension}_seq.txt"
`

func configHelpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config-help",
		Short: "Print a sample rule set",
		Long: `Prints a sample rule set. Delete entries containing regex metacharacters
are matched as regular expressions; all other entries are plain substrings.
Path variables ${fileDirname}, ${fileBasename} and ${fileBasenameNoExtension}
are expanded in translation_file, backup_file and execute.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json":
				fmt.Fprint(cmd.OutOrStdout(), sampleJSON)
			case "yaml", "yml":
				fmt.Fprint(cmd.OutOrStdout(), sampleYAML)
			default:
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Sample format: json or yaml")
	return cmd
}
