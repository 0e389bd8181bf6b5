// Command codingagent is the runtime's interactive CLI host: it wires a
// concrete ProviderAdapter, ExecutionEnvironment, and the built-in tool
// catalog into a Session and drives it from a terminal.
//
// Grounded on the teacher's examples/cli-chat/main.go (the read-eval-print
// loop shape, command handling, OPENAI_API_KEY-from-env convention), with
// the per-message ai.StreamText call replaced by Session.Submit/Subscribe
// and the flat message history replaced by the Session Loop's own turn
// algorithm. The ProviderAdapter and ExecutionEnvironment live here rather
// than being imported from examples/provideradapter-openai and
// examples/execenv-local because both are kept as non-importable `package
// main` references; this binary needs its own, so it supplies concrete,
// materially equivalent ones.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/digitallysavvy/go-ai/pkg/observability/mlflow"
	"github.com/digitallysavvy/go-ai/pkg/session"
	"github.com/digitallysavvy/go-ai/pkg/telemetry"
	"github.com/digitallysavvy/go-ai/pkg/toolexec"
	"github.com/digitallysavvy/go-ai/pkg/toolprofile"
	"github.com/digitallysavvy/go-ai/pkg/toolregistry"
	"github.com/digitallysavvy/go-ai/pkg/types"
)

func main() {
	model := flag.String("model", "gpt-4o", "model ID to request")
	family := flag.String("family", "openai", "tool-schema family: openai, anthropic, or gemini")
	workdir := flag.String("workdir", ".", "working directory the built-in tools operate against")
	maxToolRounds := flag.Int("max-tool-rounds", 200, "maximum tool-call rounds per user input")
	mlflowURI := flag.String("mlflow-uri", "", "MLflow tracking server URI; telemetry is disabled if empty")
	instructions := flag.String("instructions", "", "custom user instructions appended to the system prompt")
	reasoningEffort := flag.String("reasoning-effort", "", "reasoning effort hint: low, medium, or high; empty omits it")
	flag.Parse()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	profile, ok := toolprofile.ForFamily(toolprofile.Family(*family))
	if !ok {
		log.Fatalf("unknown tool-schema family %q", *family)
	}

	env := newLocalEnv(*workdir)
	if err := env.Initialize(context.Background()); err != nil {
		log.Fatalf("initializing working directory: %v", err)
	}

	tools := toolregistry.New()
	for _, t := range toolexec.Bind(env, profile) {
		tools.Register(t)
	}

	telemetrySettings := telemetry.DefaultSettings()
	if *mlflowURI != "" {
		tracker, err := mlflow.New(mlflow.Config{TrackingURI: *mlflowURI, ExperimentName: "codingagent"})
		if err != nil {
			log.Fatalf("connecting to mlflow: %v", err)
		}
		defer tracker.Shutdown(context.Background())
		telemetrySettings = telemetrySettings.WithEnabled(true).WithTracer(tracker.Tracer())
	}

	adapter := newOpenAIAdapter(apiKey, *model)
	defer adapter.Close()

	cfg := session.DefaultConfig()
	cfg.Model = *model
	cfg.Parallel = profile.SupportsParallelToolCalls
	cfg.MaxToolRoundsPerInput = *maxToolRounds
	cfg.Telemetry = telemetrySettings
	cfg.UserInstructions = *instructions
	if *reasoningEffort != "" {
		cfg.ReasoningEffort = types.ReasoningEffort(*reasoningEffort)
	}

	sess := session.New("", adapter, tools, cfg)
	defer sess.Abort()

	sub := sess.Subscribe()
	defer sub.Unsubscribe()
	go printEvents(sub.Events)

	runRepl(sess)
}

func runRepl(sess *session.Session) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("codingagent — type a message, or /exit to quit")
	for {
		fmt.Print("\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/exit" {
			return
		}

		if err := sess.Submit(context.Background(), line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func printEvents(events <-chan types.SessionEvent) {
	for ev := range events {
		switch ev.Kind {
		case types.SessionEventAssistantTextDelta:
			fmt.Print(ev.Text)
		case types.SessionEventAssistantTextEnd:
			fmt.Println()
		case types.SessionEventToolCallStart:
			fmt.Printf("\n[tool] %s(%v)\n", ev.ToolName, ev.ToolArgs)
		case types.SessionEventToolCallEnd:
			if ev.IsError {
				fmt.Printf("[tool error] %s\n", ev.ToolOutput)
			}
		case types.SessionEventError:
			fmt.Printf("\n[error] %s: %s\n", ev.Kind2, ev.Message)
		case types.SessionEventLoopDetection:
			fmt.Printf("\n[loop detected] %s\n", ev.Reason)
		case types.SessionEventTurnLimit:
			fmt.Printf("\n[turn limit] %s\n", ev.LimitReason)
		}
	}
}
