package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/uuid"

	"github.com/goliatone/go-timelineform/internal/logging"
	"github.com/goliatone/go-timelineform/pkg/client"
	"github.com/goliatone/go-timelineform/pkg/config"
	"github.com/goliatone/go-timelineform/pkg/journal"
	"github.com/goliatone/go-timelineform/pkg/model"
	"github.com/goliatone/go-timelineform/pkg/openapi"
	"github.com/goliatone/go-timelineform/pkg/prediction"
	"github.com/goliatone/go-timelineform/pkg/render"
	"github.com/goliatone/go-timelineform/pkg/renderers/tui"
	"github.com/goliatone/go-timelineform/pkg/submission"
	"github.com/goliatone/go-timelineform/pkg/values"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load (missing files are ignored)")
	configPath := flag.String("config", "", "timeline configuration file (overrides CONFIG_PATH)")
	train := flag.String("train", "", "training server base URL (overrides TRAINING_SERVER)")
	predict := flag.String("predict", "", "prediction server base URL (overrides PREDICTION_SERVER)")
	journalPath := flag.String("journal", "", "sqlite journal path (overrides JOURNAL_PATH)")
	intent := flag.String("intent", "", "always submit with this intent (train or predict) instead of asking")
	once := flag.Bool("once", false, "exit after the first submission")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := config.LoadEnv(*envFile)
	if err != nil {
		log.Fatalf("timelineform-cli: %v", err)
	}
	if *configPath != "" {
		env.ConfigPath = *configPath
	}
	if *train != "" {
		env.TrainingServer = *train
	}
	if *predict != "" {
		env.PredictionServer = *predict
	}
	if *journalPath != "" {
		env.JournalPath = *journalPath
	}
	if err := env.Validate(); err != nil {
		log.Fatalf("timelineform-cli: %v", err)
	}

	var fixed submission.Intent
	if *intent != "" {
		if fixed, err = submission.ParseIntent(*intent); err != nil {
			log.Fatalf("timelineform-cli: %v", err)
		}
	}

	if err := run(ctx, env, fixed, *once, os.Stdout); err != nil {
		log.Fatalf("timelineform-cli: %v", err)
	}
}

func run(ctx context.Context, env config.Env, fixed submission.Intent, once bool, out io.Writer) error {
	// Prompts own the terminal, so logs only surface warnings.
	logger, err := logging.New(os.Stderr, "warn", env.LogFormat)
	if err != nil {
		return err
	}

	file, err := config.LoadFile(env.ConfigPath)
	if err != nil {
		return err
	}
	set, err := file.Set()
	if err != nil {
		return err
	}
	form, err := model.NewBuilder(set, model.WithDecorators(model.HelpText(file.Form.Help))).Build()
	if err != nil {
		return err
	}
	doc, err := openapi.Build(ctx, set, openapi.WithServers(env.TrainingServer, env.PredictionServer))
	if err != nil {
		return err
	}

	services := client.New(env.TrainingServer, env.PredictionServer,
		client.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
		client.WithValidator(doc.Validator()),
	)
	var (
		trainer   submission.Trainer   = services
		predictor submission.Predictor = services
	)
	if env.JournalPath != "" {
		store, err := journal.Open(ctx, env.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()
		session := "cli-" + uuid.NewString()
		trainer = journal.Trainer(trainer, store, session, journal.WithLogger(logger))
		predictor = journal.Predictor(predictor, store, session, journal.WithLogger(logger))
	}

	router := submission.New(values.NewTagger(set), trainer, predictor, prediction.NewCache(), submission.WithLogger(logger))

	var tuiOptions []tui.Option
	if fixed != "" {
		tuiOptions = append(tuiOptions, tui.WithFixedIntent(fixed))
	}
	prompts := tui.New(tuiOptions...)

	var (
		prefill    map[string]string
		formErrors []string
	)
	for {
		collected, err := prompts.Collect(ctx, form, render.RenderOptions{
			Title:      file.Form.Title,
			Intent:     router.Intent(),
			Values:     prefill,
			FormErrors: formErrors,
		})
		if errors.Is(err, tui.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		if collected.Intent == submission.IntentPredict {
			router.ChoosePredict()
		} else {
			router.ChooseTrain()
		}
		prefill = collected.Text

		outcome, err := router.Submit(ctx, collected.Raw)
		if err != nil {
			if once {
				return err
			}
			formErrors = []string{err.Error()}
			continue
		}
		formErrors = nil
		printOutcome(out, form, outcome)

		if once {
			return nil
		}
		again := true
		if err := survey.AskOne(&survey.Confirm{Message: "Submit another?", Default: true}, &again); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
	}
}

func printOutcome(out io.Writer, form model.FormModel, outcome submission.Outcome) {
	if outcome.Intent == submission.IntentTrain {
		fmt.Fprintf(out, "Sent %d values for training (%s).\n", len(outcome.Values), outcome.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(out, "Prediction (%s):\n", outcome.Duration.Round(time.Millisecond))
	for idx, value := range outcome.Prediction {
		label := model.FieldName(idx)
		if idx < len(form.Fields) {
			label = form.Fields[idx].Label
		}
		fmt.Fprintf(out, "  %s: %v\n", label, value.Any())
	}
}
