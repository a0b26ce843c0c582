package main

import (
	"errors"
	"os"
	"path/filepath"

	"jobmate/internal/domain/matching"
	"jobmate/internal/resume"

	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a skill profile against a job posting",
	Long: `Score a skill profile against a job posting.

The profile comes from --skills/--role or from a resume file. The posting
comes from --title/--description or is scraped from --url.`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	f := matchCmd.Flags()
	f.StringSlice("skills", nil, "comma separated skills")
	f.String("role", "", "target role")
	f.String("resume", "", "take skills and role from this resume")
	f.String("title", "", "job title")
	f.String("description", "", "job description")
	f.String("url", "", "scrape the job posting from this URL")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f := cmd.Flags()
	skills, _ := f.GetStringSlice("skills")
	role, _ := f.GetString("role")
	title, _ := f.GetString("title")
	description, _ := f.GetString("description")

	if path, _ := f.GetString("resume"); path != "" {
		format, err := resume.FormatFromFilename(filepath.Base(path))
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		p, err := resume.Parse(data, format)
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			skills = p.Skills
		}
		if role == "" && p.TargetRole != nil {
			role = *p.TargetRole
		}
	}

	if url, _ := f.GetString("url"); url != "" {
		rec, err := newScraper(cfg.Scraper, log).ScrapeJob(cmd.Context(), url)
		if err != nil {
			return err
		}
		if rec.Title != nil {
			title = *rec.Title
		}
		if rec.Description != nil {
			description = *rec.Description
		}
	}

	if title == "" && description == "" {
		return errors.New("provide --title/--description or --url")
	}

	return printJSON(cmd.OutOrStdout(), matching.Score(skills, role, title, description))
}
