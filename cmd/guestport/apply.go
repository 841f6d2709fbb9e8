package main

import (
	"fmt"
	"os"

	"guestport/internal/config"
	"guestport/internal/forward"
	"guestport/internal/history"
)

// runApply is the shared add/delete flow: resolve the guest address, take
// the port spec from the argument or an interactive prompt, and apply the
// proxy rule and firewall pair per port.
func runApply(op forward.Op, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	target, err := app.resolveGuest()
	if err != nil {
		return err
	}

	var spec string
	if len(args) > 0 {
		spec = args[0]
	} else {
		spec, err = config.PromptPortSpecStdio(string(op))
		if err != nil {
			return err
		}
	}

	applier := forward.NewApplier(app.store(), app.mutator(), app.cfg.Rules.ListenAddress, os.Stdout)
	results, err := applier.Apply(forward.Request{Op: op, Spec: forward.PortSpec(spec)}, target)
	if err != nil {
		return err
	}

	log := app.logger("mutator")
	for _, r := range results {
		if r.ForwardErr != nil {
			log.Debugf("port %d proxy %s failed: %v", r.Port, op, r.ForwardErr)
		}
		if r.InboundErr != nil {
			log.Debugf("port %d inbound firewall %s failed: %v", r.Port, op, r.InboundErr)
		}
		if r.OutboundErr != nil {
			log.Debugf("port %d outbound firewall %s failed: %v", r.Port, op, r.OutboundErr)
		}
	}

	app.recordApply(op, target, results)

	fmt.Printf("Done: %d port(s) processed.\n", len(results))
	return nil
}

// recordApply writes one audit row per port. Failures are logged at debug
// and otherwise ignored.
func (a *app) recordApply(op forward.Op, target string, results []forward.ApplyResult) {
	if len(results) == 0 {
		return
	}

	hist := a.openHistory()
	if hist == nil {
		return
	}
	defer hist.Close()

	log := a.logger("history")
	for _, r := range results {
		entry := history.Entry{
			RunID:   a.runID,
			Op:      string(op),
			Port:    r.Port,
			Listen:  a.cfg.Rules.ListenAddress,
			Target:  target,
			Outcome: outcomeText(r.ForwardErr, r.InboundErr, r.OutboundErr),
		}
		if err := hist.Record(entry); err != nil {
			log.Debugf("record failed: %v", err)
		}
	}
}

// outcomeText folds primitive errors into the audit outcome column: the
// first failure's text, or ok.
func outcomeText(errs ...error) string {
	for _, err := range errs {
		if err != nil {
			return err.Error()
		}
	}
	return history.OutcomeOK
}
