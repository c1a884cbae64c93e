package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/orchestrator"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session with the frontline agent",
	Long: `Start a terminal session. Plain input goes to the frontline agent
under the active case; slash commands manage cases and personas:

  /case <title>     create a case and make it active
  /cases            list cases
  /switch <id>      switch the active case
  /persona <name>   set persona (scholar, plain, mentor)
  /status           show system status
  /export           export the active case as JSON
  /quit             leave`,
	RunE: runChat,
}

var (
	promptColor = color.New(color.FgCyan, color.Bold)
	agentColor  = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
	infoColor   = color.New(color.FgYellow)
)

func runChat(cmd *cobra.Command, args []string) error {
	orch, _, logger, err := buildOrchestrator()
	if err != nil {
		return err
	}
	defer orch.Close()
	defer logger.Sync()

	infoColor.Println("caseguard chat. /case <title> to start, /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(orch, line); quit {
				return nil
			}
			continue
		}

		active, ok := orch.Registry().ActiveCaseID()
		if !ok {
			errColor.Println("no active case. /case <title> to create one.")
			continue
		}

		resp, err := orch.SendMessage(cmd.Context(), line, active)
		if err != nil {
			switch {
			case errors.Is(err, registry.ErrBoundaryViolation):
				errColor.Println("boundary violation: session halted. Restart to recover.")
			case errors.Is(err, registry.ErrCaseLocked):
				errColor.Println("this case is locked.")
			default:
				errColor.Printf("error: %v\n", err)
			}
			continue
		}

		agentColor.Printf("[%s] %s\n", resp.Persona, resp.Message)
		if resp.TriggerTask != nil {
			infoColor.Printf("(background task sent to %s: %s)\n", resp.TriggerTask.ToAgent, resp.TriggerTask.Kind)
		}
	}
}

// handleCommand runs one slash command; true means quit.
func handleCommand(orch *orchestrator.Orchestrator, line string) bool {
	fields := strings.Fields(line)
	command, rest := fields[0], strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch command {
	case "/quit", "/exit":
		return true

	case "/case":
		if rest == "" {
			errColor.Println("usage: /case <title>")
			return false
		}
		id := orch.CreateCase(context.Background(), rest)
		infoColor.Printf("case %s created and active\n", id)

	case "/cases":
		active, _ := orch.Registry().ActiveCaseID()
		for _, cc := range orch.Registry().ListCases() {
			marker := " "
			if cc.ID == active {
				marker = "*"
			}
			lock := ""
			if cc.Locked {
				lock = " [locked]"
			}
			fmt.Printf("%s %s  %s%s\n", marker, cc.ID, cc.Title, lock)
		}

	case "/switch":
		if rest == "" {
			errColor.Println("usage: /switch <id>")
			return false
		}
		id, err := caseid.Parse(rest)
		if err != nil {
			orch.Registry().RecordValidationFailure(context.Background(), caseid.ID(rest), "chat")
			errColor.Printf("malformed case id %q\n", rest)
			return false
		}
		if !orch.SwitchToCase(context.Background(), id) {
			errColor.Println("unknown case id")
			return false
		}
		infoColor.Printf("active case is now %s\n", id)

	case "/persona":
		p, err := persona.Parse(rest)
		if err != nil {
			errColor.Printf("unknown persona %q (scholar, plain, mentor)\n", rest)
			return false
		}
		if err := orch.SetPersona(p); err != nil {
			errColor.Printf("error: %v\n", err)
			return false
		}
		infoColor.Printf("persona set to %s\n", p)

	case "/status":
		printJSON(orch.GetSystemStatus())

	case "/export":
		active, ok := orch.Registry().ActiveCaseID()
		if !ok {
			errColor.Println("no active case")
			return false
		}
		snap, err := orch.ExportCase(context.Background(), active)
		if err != nil {
			errColor.Printf("export failed: %v\n", err)
			return false
		}
		printJSON(snap)

	default:
		errColor.Printf("unknown command %s\n", command)
	}
	return false
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		errColor.Printf("encode failed: %v\n", err)
		return
	}
	fmt.Println(string(out))
}
