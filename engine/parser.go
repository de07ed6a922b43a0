// Package engine wires the pipeline together: load a document, classify its
// elements, run the node parsers, and resolve cross-entity references.
package engine

import (
	"context"
	"time"

	eq "github.com/clinsearch/enquiry"
	"github.com/clinsearch/enquiry/classify"
	"github.com/clinsearch/enquiry/detect"
	"github.com/clinsearch/enquiry/document"
	"github.com/clinsearch/enquiry/flags"
	"github.com/clinsearch/enquiry/nodes"
	"github.com/clinsearch/enquiry/pattern"
	"github.com/clinsearch/enquiry/worker"
)

// Parser is the pipeline entry point. Build it once; its registries are
// read-only after construction, so one Parser safely serves any number of
// concurrent Parse calls. Each call owns its own document, code store, and
// result.
type Parser struct {
	options      *eq.Options
	registry     *pattern.Registry
	flagRegistry *flags.Registry
	mapper       *flags.Mapper
	metrics      *eq.Metrics
}

// New creates a Parser with the built-in detector set and flag catalogue.
func New(opts ...eq.Option) *Parser {
	options := eq.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	p := &Parser{
		options: options,
		metrics: eq.NewMetrics(),
	}

	p.registry = pattern.NewRegistry()
	p.registry.SetLogger(options.Logger)
	if options.CollectMetrics {
		p.registry.SetMetrics(p.metrics)
	}
	detect.RegisterAll(p.registry)

	p.flagRegistry = flags.NewRegistry()
	p.flagRegistry.SetLogger(options.Logger)
	if options.CollectMetrics {
		p.flagRegistry.SetMetrics(p.metrics)
	}
	if options.FlagDropObserver != nil {
		p.flagRegistry.SetDropObserver(options.FlagDropObserver)
	}
	p.mapper = flags.NewMapper(p.flagRegistry)

	return p
}

// Registry exposes the detector registry, primarily so embedders can
// register additional detectors before the first Parse call.
func (p *Parser) Registry() *pattern.Registry {
	return p.registry
}

// Metrics returns the accumulated parse metrics.
func (p *Parser) Metrics() *eq.Metrics {
	return p.metrics
}

// Parse parses one document. Only a malformed document returns an error;
// every recovered problem degrades to a warning on the result.
func (p *Parser) Parse(ctx context.Context, xmlText, sourceName string) (*eq.ParseResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := document.Load(xmlText, sourceName)
	if err != nil {
		p.metrics.RecordParse(time.Since(start), true)
		p.options.Logger.Error().Err(err).Str("source", sourceName).Msg("document rejected")
		return nil, err
	}

	buckets := classify.Classify(doc)

	result := eq.NewParseResult()
	result.Metadata = buckets.Metadata
	if p.options.KeepPatternResults {
		result.PatternResults = make(map[string][]eq.PatternObservation)
	}

	st := nodes.NewState(doc, p.registry, p.mapper, result.Codes, result)
	st.Metadata = buckets.Metadata

	for _, el := range buckets.Folders {
		nodes.ParseFolder(st, el)
	}
	for _, el := range buckets.Searches {
		nodes.ParseSearch(st, el)
	}
	for _, el := range buckets.ListReports {
		nodes.ParseListReport(st, el)
	}
	for _, el := range buckets.AuditReports {
		nodes.ParseAuditReport(st, el)
	}
	for _, el := range buckets.AggregateReports {
		nodes.ParseAggregateReport(st, el)
	}

	if p.options.ResolveReferences {
		p.resolve(result)
	}

	p.recordMetrics(result, time.Since(start))
	p.options.Logger.Debug().
		Str("source", sourceName).
		Int("entities", len(result.Entities)).
		Int("codes", result.Codes.Len()).
		Int("warnings", result.WarningCount()).
		Msg("document parsed")
	return result, nil
}

// resolve is the lookup pass that runs after all entities exist: folder
// placement, dependency targets, and structural counts. Dependencies are
// identifier strings precisely so this pass can run without caring about
// discovery order or cycles.
func (p *Parser) resolve(result *eq.ParseResult) {
	folders := make(map[string]*eq.Entity, len(result.Folders))
	for _, folder := range result.Folders {
		folders[folder.ID] = folder
	}

	for _, entity := range result.Entities {
		if entity.ParentID != "" {
			if folder, ok := folders[entity.ParentID]; ok {
				entity.Flags["in_folder"] = true
				entity.Flags["folder_guid"] = folder.ID
				if folder.Name != "" {
					entity.Flags["folder_name"] = folder.Name
				}
			} else if _, ok := result.Entity(entity.ParentID); !ok && p.options.StrictFolders {
				result.AddWarning(eq.Warn(eq.WarnTypeReference).
					Diagnostics("entity parent " + entity.ParentID + " does not exist in this document").
					Entity(entity.ID).
					Source(result.Metadata.Source).
					Build())
			}
		}

		for _, dep := range entity.DependencyIDs {
			target, ok := result.Entity(dep)
			if !ok {
				result.AddWarning(eq.Warn(eq.WarnTypeReference).
					Diagnostics("entity depends on " + dep + " which does not exist in this document").
					Entity(entity.ID).
					Source(result.Metadata.Source).
					Build())
				continue
			}
			if target.Type == eq.EntitySearch && entity.Type == eq.EntitySearch {
				target.Flags["is_parent_search"] = true
			}
		}

		if n := len(entity.ChildIDs); n > 0 {
			entity.Flags["child_count"] = n
		}
		if n := len(entity.DependencyIDs); n > 0 {
			entity.Flags["dependency_count"] = n
		}
		if n := len(result.WarningsFor(entity.ID)); n > 0 {
			entity.Flags["has_warnings"] = true
			entity.Flags["warning_count"] = n
		}
	}

	for _, folder := range result.Folders {
		if folder.ParentID != "" {
			if _, ok := folders[folder.ParentID]; !ok && p.options.StrictFolders {
				result.AddWarning(eq.Warn(eq.WarnTypeReference).
					Diagnostics("folder parent " + folder.ParentID + " does not exist in this document").
					Entity(folder.ID).
					Source(result.Metadata.Source).
					Build())
			}
		}
		reports := 0
		for _, entity := range result.Entities {
			if entity.ParentID == folder.ID {
				reports++
			}
		}
		if reports > 0 {
			folder.Flags["report_count"] = reports
		}
	}
}

func (p *Parser) recordMetrics(result *eq.ParseResult, elapsed time.Duration) {
	p.metrics.RecordParse(elapsed, false)
	p.metrics.RecordEntities(len(result.Entities) + len(result.Folders))
	for range result.Warnings {
		p.metrics.RecordWarning()
	}
	for _, entry := range result.Codes.All() {
		p.metrics.RecordCodeInsert()
		for i := 1; i < len(entry.Sources); i++ {
			p.metrics.RecordCodeDedup()
		}
	}
}

// ParseBatch parses several documents in parallel, one goroutine per
// document up to the configured worker count. Results keep input order.
func (p *Parser) ParseBatch(ctx context.Context, jobs []worker.Job) *worker.BatchResult {
	bp := worker.NewBatchParser(p.Parse, p.options.WorkerCount)
	return bp.ParseBatch(ctx, jobs)
}
