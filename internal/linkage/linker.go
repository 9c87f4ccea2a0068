package linkage

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"seedlink/internal/blocking"
	"seedlink/internal/config"
	"seedlink/internal/logging"
	"seedlink/internal/matcher"
	"seedlink/internal/merge"
	"seedlink/internal/normalize"
	"seedlink/internal/quality"
	"seedlink/internal/record"
	"seedlink/internal/services"
	"seedlink/internal/similarity"
)

// Linker runs record linkage under a fixed policy. Construct one with New;
// the zero value is not usable.
type Linker struct {
	engine  *similarity.Engine
	scorer  *matcher.Scorer
	grader  *quality.Scorer
	rules   record.RuleSet
	logger  *slog.Logger
	workers int
}

// Outcome is the result of one linkage run: the unified records, the
// accepted match decisions behind them, and the run report.
type Outcome struct {
	RunID     string
	Varieties []record.UnifiedVariety
	Matches   []matcher.Result
	Report    Report
}

// New builds a linker from configuration. Policy violations surface as
// configuration errors from the component constructors.
func New(cfg *config.Config, logger *slog.Logger) (*Linker, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	scorer, err := matcher.NewScorer(
		matcher.Weights{
			EditDistance:       cfg.Matching.EditDistanceWeight,
			TokenOverlap:       cfg.Matching.TokenOverlapWeight,
			JaroWinkler:        cfg.Matching.JaroWinklerWeight,
			InstitutionBonus:   cfg.Matching.InstitutionBonus,
			AgreementThreshold: cfg.Matching.InstitutionAgreement,
		},
		matcher.Thresholds{
			High:   cfg.Matching.HighThreshold,
			Medium: cfg.Matching.MediumThreshold,
			Low:    cfg.Matching.LowThreshold,
		},
		cfg.Matching.YearTolerance,
	)
	if err != nil {
		return nil, err
	}

	groups := record.DefaultFieldGroups()
	groups[0].Weight = cfg.Quality.IdentificationWeight
	groups[1].Weight = cfg.Quality.StressWeight
	groups[2].Weight = cfg.Quality.AgronomicWeight
	grader, err := quality.NewScorer(groups, quality.Policy{
		Good:               cfg.Quality.GoodThreshold,
		Moderate:           cfg.Quality.ModerateThreshold,
		HighCompleteness:   cfg.Quality.HighCompleteness,
		MediumCompleteness: cfg.Quality.MediumCompleteness,
	})
	if err != nil {
		return nil, err
	}

	workers := cfg.Matching.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Linker{
		engine:  similarity.NewEngine(),
		scorer:  scorer,
		grader:  grader,
		rules:   record.DefaultRules(),
		logger:  logger,
		workers: workers,
	}, nil
}

// Grader exposes the quality scorer so single-source records can be graded
// without a linkage run.
func (l *Linker) Grader() *quality.Scorer {
	return l.grader
}

// ScorePair classifies one ad-hoc candidate pair under the configured policy,
// deriving normalized fields first. Useful for probing why two rows did or
// did not match.
func (l *Linker) ScorePair(regulatory, portal record.SourceRecord) (matcher.Result, error) {
	reg, _ := l.prepare([]record.SourceRecord{regulatory}, record.SourceRegulatory, "REG")
	por, _ := l.prepare([]record.SourceRecord{portal}, record.SourcePortal, "POR")
	if len(reg) == 0 || len(por) == 0 {
		return matcher.Result{}, services.Wrap(services.ErrValidation, "linkage", "score_pair",
			"both records need a non-empty variety name", nil)
	}
	pair := blocking.Pair{Regulatory: &reg[0], Portal: &por[0], Block: reg[0].CropKey}
	return l.scorer.Classify(pair, l.engine.Score(pair.Regulatory, pair.Portal))
}

// Link reconciles the two catalogs into unified variety records. Malformed
// records are rejected individually and reported; they never abort the run.
func (l *Linker) Link(ctx context.Context, regulatory, portal []record.SourceRecord) (*Outcome, error) {
	runID := uuid.NewString()
	started := time.Now().UTC()
	logger := l.logger.With(slog.String(logging.FieldRunID, runID))
	logger.Info("linkage run started",
		slog.Int("regulatory_records", len(regulatory)),
		slog.Int("portal_records", len(portal)),
	)

	validReg, rejections := l.prepare(regulatory, record.SourceRegulatory, "REG")
	validPor, porRejections := l.prepare(portal, record.SourcePortal, "POR")
	rejections = append(rejections, porRejections...)
	for _, rej := range rejections {
		logger.Warn("record rejected",
			slog.String(logging.FieldSource, string(rej.Source)),
			slog.String("record_id", rej.RecordID),
			slog.String("reason", rej.Reason),
		)
	}

	blocks := blocking.Partition(validReg, validPor)
	decisions, tierCounts, pairsScored, err := l.scoreBlocks(ctx, logger, blocks)
	if err != nil {
		return nil, err
	}

	selected := selectMatches(decisions)

	varieties := make([]record.UnifiedVariety, 0, len(validReg)+len(validPor))
	usedReg := make(map[string]struct{}, len(selected))
	usedPor := make(map[string]struct{}, len(selected))
	reviewCount := 0
	for _, result := range selected {
		unified, err := merge.Resolve(result)
		if err != nil {
			return nil, err
		}
		l.grader.Apply(&unified)
		varieties = append(varieties, unified)
		usedReg[result.Pair.Regulatory.ID] = struct{}{}
		usedPor[result.Pair.Portal.ID] = struct{}{}
		if result.ManualReview {
			reviewCount++
		}
	}

	unmatchedReg, unmatchedPor := 0, 0
	for i := range validReg {
		if _, ok := usedReg[validReg[i].ID]; ok {
			continue
		}
		unmatchedReg++
		unified := merge.Single(&validReg[i])
		l.grader.Apply(&unified)
		varieties = append(varieties, unified)
	}
	for i := range validPor {
		if _, ok := usedPor[validPor[i].ID]; ok {
			continue
		}
		unmatchedPor++
		unified := merge.Single(&validPor[i])
		l.grader.Apply(&unified)
		varieties = append(varieties, unified)
	}

	sort.Slice(varieties, func(i, j int) bool {
		return varieties[i].SortKey() < varieties[j].SortKey()
	})

	report := Report{
		RunID:               runID,
		StartedAt:           started,
		FinishedAt:          time.Now().UTC(),
		RegulatoryTotal:     len(regulatory),
		PortalTotal:         len(portal),
		Rejections:          rejections,
		PairsScored:         pairsScored,
		Matched:             len(selected),
		UnmatchedRegulatory: unmatchedReg,
		UnmatchedPortal:     unmatchedPor,
		TierCounts:          tierCounts,
		ReviewCount:         reviewCount,
	}
	report.MatchRate = report.matchRate()

	logger.Info("linkage run finished",
		slog.Int("matched", report.Matched),
		slog.Int("unmatched_regulatory", report.UnmatchedRegulatory),
		slog.Int("unmatched_portal", report.UnmatchedPortal),
		slog.Int("rejected_records", len(report.Rejections)),
		slog.Int("manual_review", report.ReviewCount),
		slog.String("match_rate", fmt.Sprintf("%.1f%%", report.MatchRate*100)),
	)

	return &Outcome{
		RunID:     runID,
		Varieties: varieties,
		Matches:   selected,
		Report:    report,
	}, nil
}

// prepare copies the input records, derives the normalized fields, and
// validates each record. Input records are never mutated.
func (l *Linker) prepare(records []record.SourceRecord, source record.Source, idPrefix string) ([]record.SourceRecord, []Rejection) {
	valid := make([]record.SourceRecord, 0, len(records))
	var rejections []Rejection
	for i, r := range records {
		r.Source = source
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s_%06d", idPrefix, i+1)
		}
		r.NormalizedName = normalize.Normalize(r.VarietyName, normalize.KindName)
		r.CropKey = normalize.Normalize(r.CropType, normalize.KindCrop)
		r.InstitutionKey = normalize.Normalize(r.Institution, normalize.KindInstitution)
		if err := r.Validate(l.rules); err != nil {
			rejections = append(rejections, Rejection{
				RecordID: r.ID,
				Source:   source,
				Reason:   err.Error(),
			})
			continue
		}
		valid = append(valid, r)
	}
	return valid, rejections
}

type blockOutcome struct {
	accepted   []matcher.Result
	tierCounts map[matcher.Tier]int
	pairs      int
}

// scoreBlocks fans blocks out to a bounded worker pool. Each worker owns its
// block's pairs exclusively; the collector goroutine is the single consumer
// of block outcomes.
func (l *Linker) scoreBlocks(ctx context.Context, logger *slog.Logger, blocks []blocking.Block) ([]matcher.Result, map[matcher.Tier]int, int, error) {
	var (
		accepted    []matcher.Result
		pairsScored int
	)
	tierCounts := map[matcher.Tier]int{}

	outcomes := make(chan blockOutcome)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for out := range outcomes {
			accepted = append(accepted, out.accepted...)
			pairsScored += out.pairs
			for tier, count := range out.tierCounts {
				tierCounts[tier] += count
			}
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.workers)
	for _, block := range blocks {
		block := block
		group.Go(func() error {
			out, err := l.scoreBlock(groupCtx, block)
			if err != nil {
				return err
			}
			logger.Debug("block scored",
				slog.String(logging.FieldBlock, blockLabel(block.Key)),
				slog.Int("pairs", out.pairs),
				slog.Int("accepted", len(out.accepted)),
			)
			select {
			case outcomes <- out:
				return nil
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		})
	}
	err := group.Wait()
	close(outcomes)
	<-collected
	if err != nil {
		return nil, nil, 0, err
	}
	return accepted, tierCounts, pairsScored, nil
}

func (l *Linker) scoreBlock(ctx context.Context, block blocking.Block) (blockOutcome, error) {
	out := blockOutcome{tierCounts: map[matcher.Tier]int{}}
	for _, pair := range block.Pairs {
		if err := ctx.Err(); err != nil {
			return blockOutcome{}, err
		}
		vector := l.engine.Score(pair.Regulatory, pair.Portal)
		result, err := l.scorer.Classify(pair, vector)
		if err != nil {
			return blockOutcome{}, err
		}
		out.pairs++
		out.tierCounts[result.Tier]++
		if result.Accepted() {
			out.accepted = append(out.accepted, result)
		}
	}
	return out, nil
}

// selectMatches resolves competing decisions into one match per record:
// highest confidence wins, with a lexical tie-break on source ids so runs
// are reproducible.
func selectMatches(decisions []matcher.Result) []matcher.Result {
	sort.Slice(decisions, func(i, j int) bool {
		if decisions[i].Confidence != decisions[j].Confidence {
			return decisions[i].Confidence > decisions[j].Confidence
		}
		if decisions[i].Pair.Regulatory.ID != decisions[j].Pair.Regulatory.ID {
			return decisions[i].Pair.Regulatory.ID < decisions[j].Pair.Regulatory.ID
		}
		return decisions[i].Pair.Portal.ID < decisions[j].Pair.Portal.ID
	})

	usedReg := make(map[string]struct{})
	usedPor := make(map[string]struct{})
	var selected []matcher.Result
	for _, d := range decisions {
		if _, ok := usedReg[d.Pair.Regulatory.ID]; ok {
			continue
		}
		if _, ok := usedPor[d.Pair.Portal.ID]; ok {
			continue
		}
		usedReg[d.Pair.Regulatory.ID] = struct{}{}
		usedPor[d.Pair.Portal.ID] = struct{}{}
		selected = append(selected, d)
	}
	return selected
}

func blockLabel(key string) string {
	if key == blocking.UnknownKey {
		return "unknown"
	}
	return key
}
