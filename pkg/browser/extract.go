package browser

import (
	"fmt"
)

// ExtractContent extracts page content in the specified format.
func (s *Session) ExtractContent(opts ExtractOptions) (string, error) {
	done, err := s.beginOp()
	if err != nil {
		return "", err
	}
	defer done()

	if opts.Format == "" {
		opts.Format = FormatMarkdown
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = DefaultMaxLength
	}

	raw, err := s.rawHTML(opts.Selector)
	if err != nil {
		return "", err
	}

	cleaned, err := cleanPage(raw, opts.MaxLength)
	if err != nil {
		return "", err
	}

	switch opts.Format {
	case FormatText:
		return truncateWithNotice(cleaned.Text, opts.MaxLength), nil
	case FormatHTML:
		return truncateWithNotice(cleaned.HTML, opts.MaxLength), nil
	case FormatMarkdown:
		out := cleaned.Text
		if cleaned.Title != "" {
			out = fmt.Sprintf("# %s\n\n%s", cleaned.Title, out)
		}
		return truncateWithNotice(out, opts.MaxLength), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// rawHTML returns the page HTML, or the outer HTML of the first element
// matching selector when one is given.
func (s *Session) rawHTML(selector string) (string, error) {
	if selector == "" {
		content, err := s.Page.Content()
		if err != nil {
			return "", fmt.Errorf("failed to read page content: %w", err)
		}
		return content, nil
	}

	element, err := s.Page.QuerySelector(selector)
	if err != nil {
		return "", fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", fmt.Errorf("no element found matching selector: %s", selector)
	}

	raw, err := element.InnerHTML()
	if err != nil {
		return "", fmt.Errorf("failed to read element content: %w", err)
	}
	return raw, nil
}
