package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List available build tasks",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		printTasks(outWriter(), taskCommands())
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}

func taskCommands() []*cobra.Command {
	var tasks []*cobra.Command
	for _, c := range rootCmd.Commands() {
		if c.Annotations[taskAnnotation] == "true" {
			tasks = append(tasks, c)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name() < tasks[j].Name() })
	return tasks
}

func printTasks(w io.Writer, tasks []*cobra.Command) {
	width := 0
	for _, t := range tasks {
		width = max(width, len(t.Name()))
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%-*s  %s\n", width, t.Name(), t.Short)
	}
}
