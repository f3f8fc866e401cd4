package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sweetlist/internal/formatter"
	"github.com/desertthunder/sweetlist/internal/models"
	"github.com/desertthunder/sweetlist/internal/shared"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
)

// RecipeGetter retrieves a single recipe.
type RecipeGetter interface {
	Recipe(ctx context.Context, id int) (*models.Recipe, error)
}

// FetchResult contains the recipes retrieved by [Fetcher.FetchRecipes], in the order of the requested ids.
type FetchResult struct {
	Recipes []models.Recipe
	Failed  map[int]error
}

// Fetcher retrieves recipes concurrently.
type Fetcher struct {
	client  RecipeGetter
	workers int
	logger  *log.Logger
}

// NewFetcher creates a Fetcher with the given number of workers, clamped to [1, 10]. Zero uses a default.
func NewFetcher(client RecipeGetter, workers int, logger *log.Logger) *Fetcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Fetcher{client: client, workers: workers, logger: logger}
}

type fetchJob struct {
	index int
	id    int
}

type fetchOutcome struct {
	fetchJob
	recipe *models.Recipe
	err    error
}

// FetchRecipes retrieves every id. Failures are collected per id; the returned error is only set when the
// context is cancelled or no client is configured.
func (f *Fetcher) FetchRecipes(ctx context.Context, prog chan<- ProgressUpdate, ids []int) (*FetchResult, error) {
	if f.client == nil {
		return nil, fmt.Errorf("%w: recipe client not initialized", shared.ErrServiceUnavailable)
	}

	result := &FetchResult{Failed: map[int]error{}}
	if len(ids) == 0 {
		return result, nil
	}

	sendProgress(prog, fetchingRecipesUpdate(len(ids)))

	jobs := make(chan fetchJob, len(ids))
	results := make(chan fetchOutcome, len(ids))

	var wg sync.WaitGroup
	for range f.workers {
		wg.Add(1)
		go f.worker(ctx, &wg, jobs, results)
	}

	for i, id := range ids {
		jobs <- fetchJob{index: i, id: id}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	fetched := make([]fetchOutcome, 0, len(ids))
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			f.logger.Warn("failed to fetch recipe", "recipe", res.id, "error", res.err)
			result.Failed[res.id] = res.err
			sendProgress(prog, fetchFailedUpdate(completed, len(ids), res.id, res.err))
			continue
		}
		fetched = append(fetched, res)
		sendProgress(prog, fetchedRecipeUpdate(completed, len(ids), res.recipe))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	sort.Slice(fetched, func(i, j int) bool { return fetched[i].index < fetched[j].index })
	for _, res := range fetched {
		result.Recipes = append(result.Recipes, *res.recipe)
	}
	return result, nil
}

func (f *Fetcher) worker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan fetchJob, results chan<- fetchOutcome) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- fetchOutcome{fetchJob: job, err: ctx.Err()}
			continue
		default:
		}

		recipe, err := f.client.Recipe(ctx, job.id)
		results <- fetchOutcome{fetchJob: job, recipe: recipe, err: err}
	}
}

// ExportRecipes fetches ids and writes them to path in the given format. It returns the path written and
// the fetch result; recipes that failed to load are left out of the file.
func (f *Fetcher) ExportRecipes(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int,
	format formatter.Format,
	path string,
) (string, *FetchResult, error) {
	result, err := f.FetchRecipes(ctx, prog, ids)
	if err != nil {
		return "", result, err
	}

	written, err := formatter.WriteExport(result.Recipes, format, path)
	if err != nil {
		return "", result, fmt.Errorf("failed to write export: %w", err)
	}

	sendProgress(prog, exportedUpdate(written, len(result.Recipes)))
	return written, result, nil
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
