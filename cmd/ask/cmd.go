package ask

import (
	"fmt"
	"strings"

	"github.com/nakamasato/chatboat/config"
	"github.com/nakamasato/chatboat/internal/chat"
	"github.com/nakamasato/chatboat/internal/splitter"
	"github.com/spf13/cobra"
)

var raw bool

// Command creates the ask command.
func Command() *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the sources, videos and answer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	askCmd.Flags().BoolVar(&raw, "raw", false, "Print the model reply without splitting it")

	return askCmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question must not be empty")
	}

	svc, err := chat.NewFromConfig(cmd.Context(), config.GetConfig())
	if err != nil {
		return err
	}
	defer svc.Close()

	reply, err := svc.Ask(cmd.Context(), question)
	if err != nil {
		return err
	}

	if raw {
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	}
	printSections(cmd, splitter.Split(reply))
	return nil
}

func printSections(cmd *cobra.Command, s splitter.Sections) {
	out := cmd.OutOrStdout()
	if s.Sources != "" {
		fmt.Fprintf(out, "🔗 Sources:\n%s\n\n", s.Sources)
	}
	if s.Videos != "" {
		fmt.Fprintf(out, "🎥 Videos:\n%s\n\n", s.Videos)
	}
	fmt.Fprintf(out, "🧠 Answer:\n%s\n", s.Answer)
}
