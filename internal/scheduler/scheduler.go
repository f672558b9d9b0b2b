// Package scheduler runs the periodic watchlist and holdings jobs and answers
// chat commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"MarketAdvisor/internal/advisor"
	"MarketAdvisor/internal/holdings"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/recorder"

	"github.com/robfig/cron/v3"
)

// Sender delivers a message, retrying on failure.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Advisor   *advisor.Advisor
	Book      *holdings.Book
	Notifier  Sender
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context

	log *slog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, adv *advisor.Advisor, book *holdings.Book, sender Sender, rec recorder.Recorder, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Advisor:   adv,
		Book:      book,
		Notifier:  sender,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
		log:       slog.Default().With("component", "scheduler"),
	}
}

// RegisterAll registers the watchlist scan and the holdings check.
func (s *Scheduler) RegisterAll(scanCron, holdingsCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanWatchlist); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(holdingsCron, s.checkHoldings); err != nil {
		return fmt.Errorf("register holdings task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started", "watchlist", s.Watchlist)
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunScanNow executes the watchlist scan immediately.
func (s *Scheduler) RunScanNow() {
	s.scanWatchlist()
}

// scanWatchlist reports every watched symbol and attaches a buy plan to BUY verdicts.
func (s *Scheduler) scanWatchlist() {
	s.log.Info("running watchlist scan", "symbols", len(s.Watchlist))
	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		an, id, err := s.analyze(s.Ctx, symbol)
		if err != nil {
			s.log.Error("scan symbol", "symbol", symbol, "err", err)
			s.trySend(fmt.Sprintf("❌ %s: analysis failed: %v", symbol, err))
			continue
		}

		report := notifier.FormatAnalysis(an)
		if an.Recommendation.Overall == model.Buy {
			if plan, err := s.planBuy(an, id); err == nil {
				report += "\n" + notifier.FormatBuyPlan(an.Symbol, plan)
			}
		}
		s.trySend(report)
	}
}

// checkHoldings sends a sell plan for each holding whose advice is not HOLD.
func (s *Scheduler) checkHoldings() {
	list := s.Book.List()
	s.log.Info("running holdings check", "holdings", len(list))
	for _, h := range list {
		if s.Ctx.Err() != nil {
			return
		}
		an, id, err := s.analyze(s.Ctx, h.Symbol)
		if err != nil {
			s.log.Error("check holding", "symbol", h.Symbol, "err", err)
			continue
		}
		basis := h.BasisPrice
		plan, err := s.planSell(an, id, &basis)
		if err != nil {
			continue
		}
		if plan.Advice != model.Hold {
			s.trySend(notifier.FormatSellPlan(an.Symbol, plan))
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}
	args := fields[1:]

	switch cmd {
	case "/analyze":
		if len(args) != 1 {
			return "Usage: /analyze SYMBOL"
		}
		an, _, err := s.analyze(ctx, args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatAnalysis(an)

	case "/buy":
		if len(args) != 1 {
			return "Usage: /buy SYMBOL"
		}
		an, id, err := s.analyze(ctx, args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		plan, err := s.planBuy(an, id)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatAnalysis(an) + "\n" + notifier.FormatBuyPlan(an.Symbol, plan)

	case "/sell":
		if len(args) < 1 || len(args) > 2 {
			return "Usage: /sell SYMBOL [BASIS]"
		}
		basis := s.Book.Basis(args[0])
		if len(args) == 2 {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Sprintf("❌ invalid basis price %q", args[1])
			}
			basis = &v
		}
		an, id, err := s.analyze(ctx, args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		plan, err := s.planSell(an, id, basis)
		if errors.Is(err, model.ErrMissingBasis) {
			return fmt.Sprintf("❌ no basis price for %s. Use /sell %s BASIS or /hold %s BASIS.",
				an.Symbol, an.Symbol, an.Symbol)
		}
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatSellPlan(an.Symbol, plan)

	case "/hold":
		if len(args) < 2 || len(args) > 3 {
			return "Usage: /hold SYMBOL BASIS [QTY]"
		}
		basis, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Sprintf("❌ invalid basis price %q", args[1])
		}
		qty := 0.0
		if len(args) == 3 {
			if qty, err = strconv.ParseFloat(args[2], 64); err != nil {
				return fmt.Sprintf("❌ invalid quantity %q", args[2])
			}
		}
		h, err := s.Book.Add(args[0], basis, qty)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return fmt.Sprintf("✅ %s recorded at basis %s", h.Symbol, notifier.Price(h.BasisPrice))

	case "/unhold":
		if len(args) != 1 {
			return "Usage: /unhold SYMBOL"
		}
		removed, err := s.Book.Remove(args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if !removed {
			return fmt.Sprintf("%s is not in your holdings", strings.ToUpper(args[0]))
		}
		return fmt.Sprintf("✅ %s removed", strings.ToUpper(args[0]))

	case "/holdings":
		return notifier.FormatHoldings(s.Book.List())

	case "/scan":
		s.scanWatchlist()
		return ""

	default:
		return helpText
	}
}

const helpText = `Available commands:
• /analyze SYMBOL
• /buy SYMBOL
• /sell SYMBOL [BASIS]
• /hold SYMBOL BASIS [QTY]
• /unhold SYMBOL
• /holdings
• /scan`

func (s *Scheduler) analyze(ctx context.Context, symbol string) (*advisor.Analysis, string, error) {
	an, err := s.Advisor.Analyze(ctx, symbol)
	if err != nil {
		return nil, "", err
	}
	id, err := s.Recorder.RecordAnalysis(recorder.NewAnalysisRecord(
		an.Symbol, string(s.Advisor.Strategy()), an.Latest, an.Recommendation))
	if err != nil {
		s.log.Error("record analysis", "symbol", an.Symbol, "err", err)
	}
	return an, id, nil
}

func (s *Scheduler) planBuy(an *advisor.Analysis, analysisID string) (model.BuyPlan, error) {
	plan, err := s.Advisor.PlanBuy(an)
	if err != nil {
		s.log.Warn("buy plan", "symbol", an.Symbol, "err", err)
		return model.BuyPlan{}, err
	}
	if err := s.Recorder.RecordPlan(recorder.BuyPlanRecord(analysisID, an.Symbol, plan)); err != nil {
		s.log.Error("record buy plan", "symbol", an.Symbol, "err", err)
	}
	return plan, nil
}

func (s *Scheduler) planSell(an *advisor.Analysis, analysisID string, basis *float64) (model.SellPlan, error) {
	plan, err := s.Advisor.PlanSell(an, basis)
	if err != nil {
		s.log.Warn("sell plan", "symbol", an.Symbol, "err", err)
		return model.SellPlan{}, err
	}
	if err := s.Recorder.RecordPlan(recorder.SellPlanRecord(analysisID, an.Symbol, plan)); err != nil {
		s.log.Error("record sell plan", "symbol", an.Symbol, "err", err)
	}
	return plan, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error("send notification", "err", err)
	}
}
