package logparser

import (
	"regexp"
	"strings"
	"time"

	"github.com/vsinha/mrplog/pkg/domain/entities"
)

var (
	siteListRe = regexp.MustCompile(`(?i)\bsite\s+list\s*->\s*(\S*)`)
	siteRe     = regexp.MustCompile(`(?i)\bsite:\s*(\S*)`)
)

// matchSite returns the site token on the line, or "". Text after the
// name, such as a following "Date:" label, is not part of the site.
func matchSite(line string) string {
	for _, re := range []*regexp.Regexp{siteListRe, siteRe} {
		if m := re.FindStringSubmatch(line); m != nil {
			if site := strings.TrimSpace(m[1]); site != "" {
				return site
			}
		}
	}
	return ""
}

// lineSetPredicate tests the case-folded lines of a log.
type lineSetPredicate func(folded []string) bool

func anyLineContains(needles ...string) lineSetPredicate {
	return func(folded []string) bool {
		for _, line := range folded {
			for _, needle := range needles {
				if strings.Contains(line, needle) {
					return true
				}
			}
		}
		return false
	}
}

type runTypeRule struct {
	runType entities.RunType
	matches lineSetPredicate
}

// Explicit keywords are checked before the "processing part" heuristic, and
// "net change" before "regen" when both literals occur.
var runTypeRules = []runTypeRule{
	{entities.RunTypeNetChange, anyLineContains("net change")},
	{entities.RunTypeRegen, anyLineContains("regen", "building pegging")},
	{entities.RunTypeNetChange, anyLineContains("processing part")},
}

func detectRunType(folded []string) entities.RunType {
	for _, rule := range runTypeRules {
		if rule.matches(folded) {
			return rule.runType
		}
	}
	return entities.RunTypeUnknown
}

// detectHealthFlags reports each vocabulary keyword at most once, in vocabulary order.
func detectHealthFlags(folded []string) []entities.HealthFlag {
	flags := make([]entities.HealthFlag, 0, len(entities.HealthFlagVocabulary))
	for _, flag := range entities.HealthFlagVocabulary {
		if anyLineContains(string(flag))(folded) {
			flags = append(flags, flag)
		}
	}
	return flags
}

func deriveStatus(flags []entities.HealthFlag, start, end *time.Time) entities.RunStatus {
	for _, flag := range flags {
		if flag.IsFailure() {
			return entities.StatusFailed
		}
	}
	switch {
	case start != nil && end == nil:
		return entities.StatusIncomplete
	case start != nil && end != nil:
		return entities.StatusSuccess
	default:
		return entities.StatusUncertain
	}
}
