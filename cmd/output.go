package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/jon4hz/lapinstance/internal/config"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/mergestat/timediff"
)

// render writes v as indented JSON, or hands w to text for the human readable form.
func render(w io.Writer, format config.OutputFormat, v any, text func(w io.Writer) error) error {
	if format == config.OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func relative(t time.Time) string {
	return timediff.TimeDiff(t)
}

func formatRaidDate(r lapinstance.Raid) string {
	t := r.Time().Local()
	return fmt.Sprintf("%s (%s)", t.Format("Mon 2006-01-02 15:04"), relative(t))
}

func writeRaids(w io.Writer, raids []lapinstance.Raid) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tRAID\tDATE\tCOMMENT")
	for _, r := range raids {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.RaidType.Label(), formatRaidDate(r), r.Comment)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, english.Plural(len(raids), "raid", ""))
	return err
}

func writeRaid(w io.Writer, r lapinstance.Raid) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%d\n", r.ID)
	fmt.Fprintf(tw, "Raid:\t%s\n", r.RaidType.Label())
	fmt.Fprintf(tw, "Date:\t%s\n", formatRaidDate(r))
	if r.Comment != "" {
		fmt.Fprintf(tw, "Comment:\t%s\n", r.Comment)
	}
	if r.RaidLog != "" {
		fmt.Fprintf(tw, "Log:\t%s\n", r.RaidLog)
	}
	return tw.Flush()
}

func writeUsers(w io.Writer, users []lapinstance.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDISCORD")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.DiscordID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, english.Plural(len(users), "user", ""))
	return err
}

func characterLabel(c lapinstance.UserCharacter) string {
	label := fmt.Sprintf("%s (%s %s)", c.Name, strings.ToLower(string(c.Spec.Class())), strings.ToLower(string(c.Spec.Role())))
	if c.Main {
		label += " *"
	}
	return label
}

func writeCharacters(w io.Writer, chars []lapinstance.UserCharacter) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCHARACTER\tSPEC\tOWNER")
	for _, c := range chars {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, characterLabel(c), c.Spec, c.User.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, english.Plural(len(chars), "character", ""))
	return err
}

func writeSubscriptions(w io.Writer, subs []lapinstance.RaidSubscription) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tRAID\tUSER\tRESPONSE\tCHARACTER")
	for _, s := range subs {
		char := "-"
		if s.Character != nil {
			char = characterLabel(*s.Character)
		}
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n", s.ID, s.Raid.RaidType.Label(), formatRaidDate(s.Raid), s.User.Name, s.Response, char)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, english.Plural(len(subs), "subscription", ""))
	return err
}

func writeRoster(w io.Writer, members []lapinstance.RosterMember) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tRAID\tCHARACTER\tOWNER")
	for _, m := range members {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.RaidType.Label(), characterLabel(m.UserCharacter), m.UserCharacter.User.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, english.Plural(len(members), "roster member", ""))
	return err
}

func writeEndpoints(w io.Writer, endpoints []lapinstance.Endpoint) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RESOURCE\tOPERATION\tMETHOD\tPATH")
	for _, e := range endpoints {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Resource, e.Operation, e.Method, e.Path)
	}
	return tw.Flush()
}
