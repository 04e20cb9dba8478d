package seedsig

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Record is one signed message as read from a batch file: the message
// text, the signature and the signer's public key, all hex except the
// message.
type Record struct {
	Message string `json:"message" yaml:"message"`
	R       string `json:"r" yaml:"r"`
	S       string `json:"s" yaml:"s"`
	X       string `json:"x" yaml:"x"`
	Y       string `json:"y" yaml:"y"`
}

// Signature returns the hex signature of the record.
func (r Record) Signature() SignatureHex { return SignatureHex{R: r.R, S: r.S} }

// PublicKey returns the hex public key of the record.
func (r Record) PublicKey() PublicKeyHex { return PublicKeyHex{X: r.X, Y: r.Y} }

// RecordParser reads batch records from a file or a stream.
type RecordParser interface {
	ParseRecords(source string) ([]Record, error)
	Decode(r io.Reader) ([]Record, error)
}

// Fields names the columns (CSV) or keys (JSON) a parser reads. Empty
// names fall back to message, r, s, x and y.
type Fields struct {
	Message string
	R       string
	S       string
	X       string
	Y       string
}

func (f Fields) withDefaults() Fields {
	def := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Fields{
		Message: def(f.Message, "message"),
		R:       def(f.R, "r"),
		S:       def(f.S, "s"),
		X:       def(f.X, "x"),
		Y:       def(f.Y, "y"),
	}
}

// ParserForFormat returns the parser for "json" or "csv".
func ParserForFormat(format string) (RecordParser, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return &JSONParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	}
	return nil, errors.Errorf("record format not supported [%s]", format)
}

// JSONParser reads a JSON array of objects.
//
//	[
//	  {"message": "...", "r": "...", "s": "...", "x": "...", "y": "..."}
//	]
type JSONParser struct {
	Fields Fields
}

func (p *JSONParser) ParseRecords(source string) ([]Record, error) {
	return parseFile(source, p.Decode)
}

func (p *JSONParser) Decode(r io.Reader) ([]Record, error) {
	var items []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON")
	}

	f := p.Fields.withDefaults()
	records := make([]Record, 0, len(items))
	for i, item := range items {
		var rec Record
		for _, col := range []struct {
			name string
			dst  *string
		}{
			{f.Message, &rec.Message},
			{f.R, &rec.R},
			{f.S, &rec.S},
			{f.X, &rec.X},
			{f.Y, &rec.Y},
		} {
			v, ok := item[col.name]
			if !ok {
				return nil, errors.Errorf("record %d: missing field %q", i, col.name)
			}
			s, ok := v.(string)
			if !ok {
				return nil, errors.Errorf("record %d: field %q must be a string, got %T", i, col.name, v)
			}
			*col.dst = s
		}
		records = append(records, rec)
	}
	return records, nil
}

// CSVParser reads a CSV file whose first row is a header naming the
// columns.
type CSVParser struct {
	Fields Fields
}

func (p *CSVParser) ParseRecords(source string) ([]Record, error) {
	return parseFile(source, p.Decode)
}

func (p *CSVParser) Decode(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}

	f := p.Fields.withDefaults()
	index := map[string]int{}
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	cols := make([]int, 0, 5)
	for _, name := range []string{f.Message, f.R, f.S, f.X, f.Y} {
		i, ok := index[name]
		if !ok {
			return nil, errors.Errorf("missing required column %q", name)
		}
		cols = append(cols, i)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read record on line %d", line)
		}
		records = append(records, Record{
			Message: row[cols[0]],
			R:       row[cols[1]],
			S:       row[cols[2]],
			X:       row[cols[3]],
			Y:       row[cols[4]],
		})
	}
	return records, nil
}

func parseFile(source string, decode func(io.Reader) ([]Record, error)) ([]Record, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	records, err := decode(file)
	if err != nil {
		return nil, errors.WithMessage(err, source)
	}
	return records, nil
}
