package csv

import "bufio"

const utf8BOM = "\uFEFF"

// skipBOM discards a leading UTF-8 byte order mark, which encoding/csv would
// otherwise treat as part of the first header cell.
func skipBOM(br *bufio.Reader) error {
	b, err := br.Peek(len(utf8BOM))
	if err != nil {
		// Shorter than a BOM; let the csv reader report whatever it finds.
		return nil
	}
	if string(b) == utf8BOM {
		_, err = br.Discard(len(utf8BOM))
	}
	return err
}
