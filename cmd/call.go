package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
)

var (
	callParam string
	callBody  string
	callList  bool
)

var callCmd = &cobra.Command{
	Use:   "call [operation]",
	Short: "Invoke a backend operation directly",
	Long: `Invoke any cataloged backend operation and print the resolved result
as JSON. Useful for scripting and for debugging the backend contract.

Examples:
  mailmind call --list
  mailmind call get-analytics
  mailmind call get-history-by-intent --param COMPLAINT
  mailmind call detect-intent --body '{"emailContent":"hello there"}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callParam, "param", "", "route parameter for operations that take one")
	callCmd.Flags().StringVar(&callBody, "body", "", "JSON request body")
	callCmd.Flags().BoolVar(&callList, "list", false, "list cataloged operations")
}

// callResult is the printed form of an envelope.
type callResult struct {
	Status  string          `json:"status"`
	Shape   string          `json:"shape,omitempty"`
	Text    string          `json:"text,omitempty"`
	Object  json.RawMessage `json:"object,omitempty"`
	List    json.RawMessage `json:"list,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

func runCall(cmd *cobra.Command, args []string) error {
	if callList {
		return printOperations()
	}
	if len(args) != 1 {
		return fmt.Errorf("operation name required (see --list)")
	}
	name := args[0]
	if _, ok := api.Lookup(name); !ok {
		return fmt.Errorf("unknown operation %q (see --list)", name)
	}

	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.cleanup()

	var body any
	if callBody != "" {
		var decoded json.RawMessage
		if err := json.Unmarshal([]byte(callBody), &decoded); err != nil {
			return fmt.Errorf("request body is not valid JSON: %w", err)
		}
		body = decoded
	}

	env := api.Resolve(e.svc.Client().Invoke(cmd.Context(), name, callParam, body))

	out := callResult{Status: env.Status.String()}
	if env.Status == api.StatusSuccess {
		out.Shape = env.Payload.Shape.String()
		out.Text = env.Payload.Text
		out.Object = env.Payload.Object
		out.List = env.Payload.List
	} else {
		out.Error = env.ErrKind.String()
		out.Message = env.ErrMessage
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if env.Status == api.StatusError {
		os.Exit(1)
	}
	return nil
}

func printOperations() error {
	ops := api.Operations()
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	for _, op := range ops {
		fmt.Printf("%-22s %-6s %-36s %s\n", op.Name, op.Method, op.Route, op.Shape)
	}
	return nil
}
