package main

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func writeResult(out io.Writer, v any, err error) error {
	if err != nil {
		return err
	}

	return writeJSON(out, v)
}

func writeFound(out io.Writer, v any, found bool, err error) error {
	if err != nil {
		return err
	}

	if !found {
		return errNotFound
	}

	return writeJSON(out, v)
}

// writeOutcome reports a write. A false outcome without error means a business rule blocked it;
// commands check that their target exists before writing.
func writeOutcome(out io.Writer, action string, ok bool, err error) error {
	if err != nil {
		return err
	}

	if !ok {
		return errBlocked
	}

	return writeJSON(out, map[string]bool{action: true})
}

func writeMetrics(gatherer prometheus.Gatherer, out io.Writer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return err
	}

	for _, family := range families {
		if _, err = expfmt.MetricFamilyToText(out, family); err != nil {
			return err
		}
	}

	return nil
}
