package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/trjrender/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINPUT\tTIME\tFRAMES\tFORMAT\tSCALE\tROTATION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.3g\t%g/%g/%g\n",
			run.ID,
			run.Input,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Format,
			run.Scale,
			run.Rotation[0], run.Rotation[1], run.Rotation[2],
		)
	}

	return w.Flush()
}

type runExport struct {
	*storage.RunMetadata
	FrameList []storage.FrameRecord `json:"frame_list"`
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{RunMetadata: meta, FrameList: frames})
}
