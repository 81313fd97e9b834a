package eventsrc

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arosling/casewatch/internal/contract"
	"github.com/arosling/casewatch/schema"
)

// ruleColumns is the expected CSV layout of a threshold-rule catalog:
// id, effective_from, effective_to, organism, department,
// monthly_threshold, amber_threshold, red_threshold.
// effective_to, department and the amber/red tiers may be blank.
const ruleColumns = 8

// CSVRuleCatalog loads threshold rules from a CSV catalog file. Threshold
// values are extracted from external policy documents upstream; this
// reader only parses the tabular result.
type CSVRuleCatalog struct {
	path string
}

var _ contract.RuleCatalog = &CSVRuleCatalog{} // Compile-time check

// NewCSVRuleCatalog creates a rule catalog backed by a CSV file.
func NewCSVRuleCatalog(path string) *CSVRuleCatalog {
	return &CSVRuleCatalog{path: path}
}

// FetchRules implements the RuleCatalog interface.
func (c *CSVRuleCatalog) FetchRules(ctx context.Context) ([]schema.ThresholdRule, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = ruleColumns
	r.TrimLeadingSpace = true

	var rules []schema.ThresholdRule
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rules file %s: %w", c.path, err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "id") {
			continue
		}

		rule, err := parseRule(record)
		if err != nil {
			return nil, fmt.Errorf("rules file %s line %d: %w", c.path, line, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// parseRule converts one CSV record into a ThresholdRule.
func parseRule(record []string) (schema.ThresholdRule, error) {
	var rule schema.ThresholdRule
	var err error

	if rule.ID, err = strconv.Atoi(strings.TrimSpace(record[0])); err != nil {
		return rule, fmt.Errorf("bad rule id %q: %w", record[0], err)
	}
	if rule.EffectiveFrom, err = time.ParseInLocation(schema.DateFormat, strings.TrimSpace(record[1]), time.UTC); err != nil {
		return rule, fmt.Errorf("bad effective_from %q: %w", record[1], err)
	}
	if to := strings.TrimSpace(record[2]); to != "" {
		t, err := time.ParseInLocation(schema.DateFormat, to, time.UTC)
		if err != nil {
			return rule, fmt.Errorf("bad effective_to %q: %w", record[2], err)
		}
		rule.EffectiveTo = &t
	}

	rule.Organism = strings.TrimSpace(record[3])
	if rule.Organism == "" {
		return rule, fmt.Errorf("organism scope must not be blank")
	}
	if dept := strings.TrimSpace(record[4]); dept != "" {
		rule.Department = &dept
	}

	if rule.MonthlyCaseThreshold, err = strconv.Atoi(strings.TrimSpace(record[5])); err != nil {
		return rule, fmt.Errorf("bad monthly_threshold %q: %w", record[5], err)
	}
	if rule.AmberThreshold, err = parseOptionalInt(record[6]); err != nil {
		return rule, fmt.Errorf("bad amber_threshold %q: %w", record[6], err)
	}
	if rule.RedThreshold, err = parseOptionalInt(record[7]); err != nil {
		return rule, fmt.Errorf("bad red_threshold %q: %w", record[7], err)
	}
	return rule, nil
}

func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
