package fetcher

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// Source describes one remote dataset file.
type Source struct {
	Name     string // short identifier, e.g. "pay"
	URL      string
	Filename string // name to save under in the destination directory
}

// DefaultSources returns the published files the analysis is built from.
func DefaultSources() []Source {
	return []Source{
		{
			Name:     "pubs",
			URL:      "https://www.getthedata.com/downloads/open_pubs.csv.zip",
			Filename: "open_pubs.csv.zip",
		},
		{
			Name:     "population",
			URL:      "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/populationandmigration/populationestimates/datasets/populationestimatesforukenglandandwalesscotlandandnorthernireland/mid2017/ukmidyearestimates2017finalversion.xls",
			Filename: "ukmidyearestimates2017.xls",
		},
		{
			Name:     "pay",
			URL:      "https://www.ons.gov.uk/file?uri=/employmentandlabourmarket/peopleinwork/earningsandworkinghours/datasets/placeofresidencebylocalauthorityashetable8/2017revised/table82017revised.zip",
			Filename: "ashe-table8-2017.zip",
		},
		{
			Name:     "boundaries",
			URL:      "https://geoportal.statistics.gov.uk/datasets/local-authority-districts-december-2018-boundaries-gb-bfc.zip",
			Filename: "lad-boundaries-2018.zip",
		},
	}
}

// FetchAll downloads every source into destDir concurrently.
// Returns the local paths keyed by source name.
func FetchAll(ctx context.Context, f Fetcher, destDir string, sources []Source) (map[string]string, error) {
	paths := make(map[string]string, len(sources))
	for _, src := range sources {
		paths[src.Name] = filepath.Join(destDir, src.Filename)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, src := range sources {
		g.Go(func() error {
			n, err := f.DownloadToFile(ctx, src.URL, paths[src.Name])
			if err != nil {
				return eris.Wrapf(err, "fetcher: download %s", src.Name)
			}
			zap.L().Info("fetcher: downloaded source",
				zap.String("source", src.Name),
				zap.Int64("bytes", n),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
