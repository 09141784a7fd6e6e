// Copyright © 2018 One Concern

package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/autodataman/pkg/model"
)

var (
	fmtBold    = color.New(color.Bold)
	fmtWarning = color.New(color.FgHiRed, color.Bold)
	fmtMuted   = color.New(color.FgHiBlack)
)

func newTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	return table
}

func printTable(table *uitable.Table) {
	if len(table.Rows) == 0 {
		return
	}
	infoLogger.Println(table.String())
}

func printWarning(format string, args ...interface{}) {
	infoLogger.Println(fmtWarning.Sprintf(format, args...))
}

func printHeader(format string, args ...interface{}) {
	infoLogger.Println(fmtBold.Sprintf(format, args...))
}

// versionsOf lists the versions of a dataset, marking the default one
func versionsOf(ds *model.Dataset) string {
	if len(ds.Versions) == 0 {
		return fmtMuted.Sprint("(none)")
	}
	versions := make([]string, 0, len(ds.Versions))
	for _, v := range ds.Versions {
		if v == ds.Default {
			v += " [default]"
		}
		versions = append(versions, v)
	}
	return strings.Join(versions, ", ")
}

func describeDataset(ds *model.Dataset) *uitable.Table {
	source := ds.Source
	if source == "" {
		source = fmtMuted.Sprint("(unknown)")
	}
	table := newTable()
	table.AddRow("Long name:", ds.LongName)
	table.AddRow("Short name:", ds.ShortName)
	table.AddRow("Source:", source)
	table.AddRow("Versions:", versionsOf(ds))
	return table
}
