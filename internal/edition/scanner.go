package edition

import (
	"fmt"
	"time"

	"github.com/harrison/msutils/internal/fileutil"
	"github.com/harrison/msutils/internal/page"
)

// DirectoryInddFiles lists the InDesign pages in dir and all of its
// subdirectories, hidden ones included, since supplements and inserts are
// filed in subfolders.
// The result is sorted and narrowed to date (see FilterByDate).
func (r *Resolver) DirectoryInddFiles(dir string, date time.Time) ([]page.Page, error) {
	result, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{
		Extensions: []string{page.KindInDesign.Extension()},
		Recursive:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list InDesign files in %s: %w", dir, err)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("list InDesign files in %s: %w", dir, err)
	}
	return r.toPages(result.Files, date), nil
}

// DirectoryPDFs lists the PDF pages directly inside dir. A missing dir is
// not an error: output folders are created when first written to.
func (r *Resolver) DirectoryPDFs(dir string, date time.Time) ([]page.Page, error) {
	result, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{
		Extensions: []string{page.KindPDF.Extension()},
		MissingOK:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("list PDFs in %s: %w", dir, err)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("list PDFs in %s: %w", dir, err)
	}
	return r.toPages(result.Files, date), nil
}

// EditionInddFiles lists the InDesign pages of date's edition.
func (r *Resolver) EditionInddFiles(date time.Time) ([]page.Page, error) {
	dir, err := r.EditionDir(date)
	if err != nil {
		return nil, err
	}
	return r.DirectoryInddFiles(dir, date)
}

// EditionPressPDFs lists the pre-press PDFs of date's edition.
func (r *Resolver) EditionPressPDFs(date time.Time) ([]page.Page, error) {
	dir, err := r.PressPDFsDir(date)
	if err != nil {
		return nil, err
	}
	return r.DirectoryPDFs(dir, date)
}

// EditionWebPDFs lists the low-quality e-edition PDFs of date's edition.
func (r *Resolver) EditionWebPDFs(date time.Time) ([]page.Page, error) {
	dir, err := r.WebPDFsDir(date)
	if err != nil {
		return nil, err
	}
	return r.DirectoryPDFs(dir, date)
}

// toPages parses paths into sorted pages, dropping (and reporting) names
// that do not follow the convention, then filters by date.
func (r *Resolver) toPages(paths []string, date time.Time) []page.Page {
	pages := make([]page.Page, 0, len(paths))
	for _, path := range paths {
		p, err := page.New(path)
		if err != nil {
			r.logger.LogSkippedFile(path, err)
			continue
		}
		pages = append(pages, p)
	}
	page.Sort(pages)

	kept, misfiled := FilterByDate(pages, date)
	if len(misfiled) > 0 {
		r.logger.LogMisfiledPages(civil(date), misfiled)
	}
	return kept
}
