package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/petrijr/formflow/pkg/api"
)

const actionQuit = "Quit"

// shell drives a wizard from a terminal: it renders the stepper, prompts the
// active step's fields and forwards navigation choices to the wizard.
type shell struct {
	wizard api.Wizard
	driver PromptDriver
}

func newShell(w api.Wizard, d PromptDriver) *shell {
	return &shell{wizard: w, driver: d}
}

// run loops until the wizard completes or the user quits. A quit before
// completion returns ErrAborted.
func (s *shell) run(ctx context.Context) error {
	var errs api.FieldErrors
	for {
		view := s.wizard.View()
		if err := s.driver.Info(ctx, renderStepper(view)); err != nil {
			return err
		}
		if view.Completed {
			return s.driver.Info(ctx, "All steps completed.")
		}

		if err := s.promptFields(ctx, view.Active, errs); err != nil {
			return err
		}
		errs = nil

		options := make([]string, 0, 3)
		if view.CanRetreat {
			options = append(options, api.LabelBack)
		}
		options = append(options, view.AdvanceLabel, actionQuit)

		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      view.Active.Label,
			Options:      options,
			DefaultIndex: len(options) - 2,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			continue
		}

		switch options[idx] {
		case actionQuit:
			return ErrAborted
		case api.LabelBack:
			s.wizard.RequestRetreat(ctx)
		default:
			out, err := s.wizard.RequestAdvance(ctx, nil)
			switch {
			case out == api.OutcomeInvalid:
				errs, _ = api.IsValidationError(err)
				if err := s.driver.Info(ctx, renderErrors(errs)); err != nil {
					return err
				}
			case out == api.OutcomeSubmitFailed:
				if err := s.driver.Info(ctx, fmt.Sprintf("Submission failed: %v. Your answers were kept; try again.", errors.Unwrap(err))); err != nil {
					return err
				}
			case err != nil:
				return err
			}
		}
	}
}

// promptFields asks for every field of the step, defaulting to the current
// values. Steps without a FieldSet have nothing to prompt.
func (s *shell) promptFields(ctx context.Context, step api.StepDescriptor, errs api.FieldErrors) error {
	fields, ok := api.FieldSetOf(step)
	if !ok {
		return nil
	}
	values := s.wizard.Values()
	for _, f := range fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		help := f.Help
		if msg, bad := errs[f.Name]; bad {
			label = label + " (" + msg + ")"
		}

		var value any
		switch f.Kind {
		case api.FieldBoolean:
			cur, _ := values.Bool(f.Name)
			b, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: cur, Help: help})
			if err != nil {
				return err
			}
			value = b
		case api.FieldNumber:
			text, err := s.driver.Input(ctx, InputConfig{
				Message:   label,
				Default:   values.Text(f.Name),
				Help:      help,
				Validator: validateNumber,
			})
			if err != nil {
				return err
			}
			value = parseNumber(text)
		case api.FieldTextArea:
			text, err := s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: values.Text(f.Name), Help: help})
			if err != nil {
				return err
			}
			value = text
		default:
			text, err := s.driver.Input(ctx, InputConfig{Message: label, Default: values.Text(f.Name), Help: help})
			if err != nil {
				return err
			}
			value = text
		}
		if err := values.Set(f.Name, value); err != nil {
			return fmt.Errorf("set %s: %w", f.Name, err)
		}
	}
	return nil
}

// parseNumber keeps unparseable input as text so the step's number rule
// reports it.
func parseNumber(text string) any {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	return text
}

func validateNumber(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return fmt.Errorf("%q is not a number", text)
	}
	return nil
}

// renderStepper draws the progress indicator, e.g.
//
//	[x] Personal Info  > [2] Bank statement  [3] Additional Info
func renderStepper(v api.View) string {
	var b strings.Builder
	for i, step := range v.Steps {
		if i > 0 {
			b.WriteString("  ")
		}
		if step.Active {
			b.WriteString("> ")
		}
		if step.Completed {
			b.WriteString("[x] ")
		} else {
			fmt.Fprintf(&b, "[%d] ", step.Index+1)
		}
		b.WriteString(step.Label)
	}
	if v.Submitting {
		b.WriteString("  (" + api.LabelSubmitting + ")")
	}
	return b.String()
}

func renderErrors(errs api.FieldErrors) string {
	var b strings.Builder
	b.WriteString("Please fix the following:")
	for _, name := range errs.Fields() {
		fmt.Fprintf(&b, "\n  - %s: %s", name, errs[name])
	}
	return b.String()
}
