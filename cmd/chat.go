package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentsage/internal/assistant"
	"github.com/spigell/talentsage/internal/logger"
	"github.com/spigell/talentsage/internal/recruitment"
)

const (
	PromptContinue = "Continue chatting"
	commandExit    = "/exit"
	commandReset   = "/reset"
)

var errExit = errors.New("exit requested")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the hiring assistant",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("job", "", "job the assistant acts on (default is the first job)")
	chatCmd.Flags().String("audio", "", "transcribe a recorded command and process it instead of starting the prompt")
}

func chat(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	a, err := newApplication(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the application", zap.Error(err))
	}
	defer a.Close()

	conv := assistant.NewConversation()
	conv.SetOpen(true)

	if jobID, _ := cmd.Flags().GetString("job"); jobID != "" {
		if _, ok := a.store.Job(jobID); !ok {
			logger.Fatal("job not found", zap.String("job_id", jobID))
		}
		conv.SetCurrentJobID(jobID)
	}

	out := cmd.OutOrStdout()
	printMessage(out, conv.Messages()[0])

	if audio, _ := cmd.Flags().GetString("audio"); audio != "" {
		adapter, err := a.voiceAdapter(ctx)
		if err != nil {
			logger.Fatal("preparing voice input", zap.Error(err))
		}

		reply, err := adapter.ListenFile(ctx, conv, audio)
		if err != nil {
			logger.Fatal("processing audio command", zap.Error(err))
		}

		messages := conv.Messages()
		printMessage(out, messages[len(messages)-2])
		printMessage(out, reply)
		return
	}

	input := promptui.Prompt{Label: "You"}
	for {
		text, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		switch strings.TrimSpace(text) {
		case commandExit:
			return
		case commandReset:
			conv.Reset()
			printMessage(out, conv.Messages()[0])
			continue
		}

		reply, err := a.interpreter.Submit(ctx, conv, text)
		if errors.Is(err, assistant.ErrEmptyCommand) {
			continue
		}
		if err != nil {
			logger.Fatal("processing command", zap.Error(err))
		}

		printMessage(out, reply)

		if err := followUp(ctx, out, a, conv, reply.Actions); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Error("running suggested action", zap.Error(err))
		}
	}
}

// followUp offers the suggested actions of a reply until the user goes back to chatting.
func followUp(ctx context.Context, out io.Writer, a *application, conv *assistant.Conversation, actions []assistant.SuggestedAction) error {
	if len(actions) == 0 {
		return nil
	}

	items := make([]string, 0, len(actions)+1)
	for _, action := range actions {
		items = append(items, action.Label)
	}
	items = append(items, PromptContinue)

	selector := promptui.Select{Label: "Suggested actions", Items: items}
	idx, _, err := selector.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return errExit
		}
		return err
	}
	if idx == len(actions) {
		return nil
	}

	return handleAction(ctx, out, a, conv, actions[idx].Action)
}

func handleAction(ctx context.Context, out io.Writer, a *application, conv *assistant.Conversation, action string) error {
	jobID := a.interpreter.ResolveJob(conv)

	switch action {
	case "view_shortlisted":
		printCandidates(out, a.store.CandidatesByStage(jobID, recruitment.StageShortlisted))
	case "view_candidates":
		printCandidates(out, a.store.CandidatesByJob(jobID))
	case "view_jobs":
		printJobs(out, a.store)
	case "view_rubric", "edit_rubric":
		printRubric(out, jobID, a.store.Rubric(jobID))
	case "shortlist":
		return submitFollowUp(ctx, out, a, conv, "shortlist top candidates")
	case "generate_rubric":
		return submitFollowUp(ctx, out, a, conv, "generate rubric")
	case "schedule", "schedule_interview":
		return scheduleInterview(out, a, jobID)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}

	return nil
}

func submitFollowUp(ctx context.Context, out io.Writer, a *application, conv *assistant.Conversation, text string) error {
	reply, err := a.interpreter.Submit(ctx, conv, text)
	if err != nil {
		return err
	}
	printMessage(out, reply)
	return followUp(ctx, out, a, conv, reply.Actions)
}

func scheduleInterview(out io.Writer, a *application, jobID string) error {
	candidates := a.store.CandidatesByJob(jobID)
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No candidates for this job yet.")
		return nil
	}

	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = fmt.Sprintf("%s (%s, %d)", c.Name, c.Stage, c.Score)
	}

	idx, _, err := (&promptui.Select{Label: "Candidate", Items: labels}).Run()
	if err != nil {
		return err
	}

	notEmpty := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}

	date, err := (&promptui.Prompt{Label: "Date", Validate: notEmpty}).Run()
	if err != nil {
		return err
	}
	at, err := (&promptui.Prompt{Label: "Time", Validate: notEmpty}).Run()
	if err != nil {
		return err
	}

	a.store.ScheduleInterview(candidates[idx].ID, recruitment.Interview{Date: date, Time: at})
	fmt.Fprintf(out, "Interview scheduled for %s at %s with %s.\n", date, at, candidates[idx].Name)
	return nil
}

func printMessage(out io.Writer, msg assistant.ChatMessage) {
	speaker := "Assistant"
	if msg.Role == assistant.RoleUser {
		speaker = "You"
	}
	fmt.Fprintf(out, "%s: %s\n", speaker, msg.Content)
}

func printCandidates(out io.Writer, candidates []recruitment.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No candidates found.")
		return
	}
	for _, c := range candidates {
		fmt.Fprintf(out, "  %-8s %-20s %-12s %3d  %s\n", c.ID, c.Name, c.Stage, c.Score, strings.Join(c.Skills, ", "))
	}
}

func printRubric(out io.Writer, jobID string, rubric recruitment.Rubric) {
	fmt.Fprintf(out, "Rubric for %s (total weight %d):\n", jobID, rubric.TotalWeight())
	for _, c := range rubric.Criteria {
		fmt.Fprintf(out, "  %3d%%  %s: %s\n", c.Weight, c.Name, c.Description)
	}
}
