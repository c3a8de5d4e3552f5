package main

import (
	"fmt"
	"io"
	"math"

	"github.com/markkurossi/tabulate"
	stego "github.com/yyyoichi/stego_zero"
	"github.com/yyyoichi/stego_zero/internal/distortion"
)

func printImages(w io.Writer, images []stego.Image) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Image").SetAlign(tabulate.ML)
	tab.Header("Shape").SetAlign(tabulate.MR)
	tab.Header("Capacity").SetAlign(tabulate.MR)

	var total int
	for _, img := range images {
		row := tab.Row()
		row.Column(img.Name)
		row.Column(fmt.Sprintf("%dx%dx%d", img.Height, img.Width, img.Channels))
		row.Column(fmt.Sprintf("%d B", img.Len()/8))
		total += img.Len()
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(fmt.Sprintf("%d B", total/8)).SetFormat(tabulate.FmtBold)
	tab.Print(w)
}

func printReports(w io.Writer, reports []distortion.Report) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Image").SetAlign(tabulate.ML)
	tab.Header("Changed").SetAlign(tabulate.MR)
	tab.Header("Max").SetAlign(tabulate.MR)
	tab.Header("PSNR").SetAlign(tabulate.MR)

	for _, r := range reports {
		row := tab.Row()
		row.Column(r.Name)
		row.Column(fmt.Sprintf("%d/%d", r.Changed, r.Bytes))
		row.Column(fmt.Sprintf("%.0f", r.MaxDiff))
		if math.IsInf(r.PSNR, 1) {
			row.Column("inf")
		} else {
			row.Column(fmt.Sprintf("%.2f dB", r.PSNR))
		}
	}
	tab.Print(w)
}
