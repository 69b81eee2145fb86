package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mediashelf/media-api/internal/model"
	"mediashelf/media-api/pkg/client"
	"mediashelf/media-api/pkg/util"

	"github.com/dustin/go-humanize"
)

func printSkeleton(w io.Writer) {
	for range client.SkeletonCount {
		fmt.Fprintln(w, "░░░░░░░░░░░░  ░░░░░░  ░░░░░░░░░")
	}
}

func printVideos(w io.Writer, videos []model.Video, term string) error {
	if len(videos) == 0 {
		if term != "" {
			fmt.Fprintln(w, "No videos match your search")
			return nil
		}
		fmt.Fprintln(w, "No videos available, upload your first video to get started")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tDURATION\tORIGINAL\tCOMPRESSED\tSAVED\tUPLOADED\tID")
	for _, v := range videos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Title,
			util.FormatDuration(v.Duration),
			humanize.Bytes(uint64(v.OriginalSize)),
			humanize.Bytes(uint64(v.CompressedSize)),
			savedPercent(v.OriginalSize, v.CompressedSize),
			humanize.Time(v.CreatedAt),
			v.ID,
		)
	}
	return tw.Flush()
}

func savedPercent(original, compressed int64) string {
	if original <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", int(100-float64(compressed)*100/float64(original)+0.5))
}

func progressBar(pct int) string {
	const width = 30
	filled := pct * width / 100
	return fmt.Sprintf("\r[%s%s] %3d%%", strings.Repeat("=", filled), strings.Repeat(" ", width-filled), pct)
}
