package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/session"
)

// currentUser is the command gate: every data command requires a live
// session. Commands needing a specific role pass it to requireRole instead.
func (a *App) currentUser() (api.User, error) {
	return a.requireRole("")
}

func (a *App) requireRole(role string) (api.User, error) {
	if err := a.sessions.RequireRole(role); err != nil {
		if errors.Is(err, session.ErrForbidden) {
			fmt.Println("This command requires the", role, "role")
		} else {
			fmt.Println("Please login first")
		}
		return api.User{}, err
	}
	user, _ := a.sessions.Current()
	return user, nil
}

// Variants lists the user's genomic variants.
func (a *App) Variants(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	variants, err := a.genomic.Variants(ctx, user.ID)
	if err != nil {
		a.log.Error(ctx, "variants fetch failed", "err", err)
		return err
	}

	if len(variants) == 0 {
		fmt.Println("No variants yet — upload a genomic file first")
		return nil
	}

	fmt.Printf("%-12s %-6s %-12s %-6s %-6s %-10s %s\n", "ID", "CHR", "POS", "REF", "ALT", "TYPE", "QUAL")
	for _, v := range variants {
		fmt.Printf("%-12s %-6s %-12d %-6s %-6s %-10s %.1f\n",
			v.VariantID, v.Chromosome, v.Position, v.Reference, v.Alternative, v.VariantType, v.Quality)
	}
	return nil
}

// Scores lists the user's polygenic risk scores.
func (a *App) Scores(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	scores, err := a.prs.Scores(ctx, user.ID)
	if err != nil {
		a.log.Error(ctx, "risk scores fetch failed", "err", err)
		return err
	}

	if len(scores) == 0 {
		fmt.Println("No risk scores computed yet")
		return nil
	}

	for _, s := range scores {
		fmt.Printf("%-32s score %.3f  (%.0fth percentile)\n", s.Condition, s.Score, s.Percentile)
	}
	return nil
}

// Upload sends a genomic file to the backend and reports progress. The
// analysis job started for the file can be followed with the watch command.
func (a *App) Upload(ctx context.Context, args []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	if err := a.uploads.Select(args[0]); err != nil {
		fmt.Println(err)
		return err
	}

	receipt, err := a.uploads.Start(ctx, user.ID, func(p int) {
		fmt.Printf("\rUploading... %3d%%", p)
	})
	fmt.Println()
	if err != nil {
		a.log.Error(ctx, "upload failed", "file", args[0], "err", err)
		return err
	}

	fmt.Printf("%s (analysis id: %s)\n", receipt.Message, receipt.ID)
	if receipt.ID != "" {
		fmt.Printf("Run 'watch %s' to follow the analysis\n", receipt.ID)
	}
	return nil
}

// Store uploads a file straight to object storage using a presigned
// credential from the backend.
func (a *App) Store(ctx context.Context, args []string) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Println(err)
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	path, err := a.storage.UploadVCF(ctx, args[0], f, fi.Size(), func(p int) {
		fmt.Printf("\rUploading... %3d%%", p)
	})
	fmt.Println()
	if err != nil {
		a.log.Error(ctx, "storage upload failed", "file", args[0], "err", err)
		return err
	}

	fmt.Printf("Stored as %s\n", path)
	return nil
}

// Watch follows an analysis job until it finishes or fails.
func (a *App) Watch(ctx context.Context, args []string) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}

	fmt.Printf("Watching analysis %s (Ctrl+C to stop)\n", args[0])
	for snap := range a.tracker.Watch(ctx, args[0]) {
		if snap.Err != nil {
			fmt.Printf("  poll failed: %v (retrying)\n", snap.Err)
			continue
		}
		for _, step := range snap.Steps {
			fmt.Printf("  %-24s %s\n", step.Name, step.Status)
		}
		if snap.Done {
			fmt.Println("Analysis complete")
		}
	}
	return nil
}

// Chat runs an interactive exchange with the assistant. An empty line leaves
// the chat; the transcript survives until logout.
func (a *App) Chat(ctx context.Context) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	if a.chat == nil {
		a.chat = a.chats.NewSession(user.ID)
	}

	fmt.Println("Chat with the assistant (empty line to leave)")
	for {
		line, err := getSimpleText(a.reader, "You", os.Stdout)
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			return nil
		}

		reply, err := a.chat.Send(ctx, line)
		if err != nil {
			fmt.Println("The assistant could not answer, please try again")
			a.log.Warn(ctx, "chat send failed", "err", err)
			continue
		}
		fmt.Printf("Assistant: %s\n", reply.Content)
	}
}

// MRI dispatches the mri subcommands: list, analyze, show, delete.
func (a *App) MRI(ctx context.Context, args []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		scans, err := a.mri.Scans(ctx, user.ID)
		if err != nil {
			a.log.Error(ctx, "mri listing failed", "err", err)
			return err
		}
		if len(scans) == 0 {
			fmt.Println("No MRI scans uploaded yet")
			return nil
		}
		for _, s := range scans {
			fmt.Printf("%-12s %-28s %-10s analyzed: %v\n", s.ID, s.FileName, s.AnalysisType, s.Analyzed)
		}
		return nil

	case "analyze":
		if len(args) < 2 {
			fmt.Println("Usage: mri analyze <file> [type]")
			return nil
		}
		analysisType := "tumor"
		if len(args) > 2 {
			analysisType = args[2]
		}

		result, err := a.mri.AnalyzeScan(ctx, user.ID, args[1], analysisType, true, func(p int) {
			fmt.Printf("\rUploading... %3d%%", p)
		})
		fmt.Println()
		if err != nil {
			a.log.Error(ctx, "mri analysis failed", "file", args[1], "err", err)
			return err
		}
		printAnalysis(result)
		return nil

	case "show":
		if len(args) < 2 {
			fmt.Println("Usage: mri show <image-id>")
			return nil
		}
		result, err := a.mri.Analysis(ctx, args[1])
		if err != nil {
			a.log.Error(ctx, "mri analysis fetch failed", "id", args[1], "err", err)
			return err
		}
		printAnalysis(result)
		return nil

	case "delete":
		if len(args) < 2 {
			fmt.Println("Usage: mri delete <image-id>")
			return nil
		}
		if err := a.mri.Delete(ctx, user.ID, args[1]); err != nil {
			a.log.Error(ctx, "mri delete failed", "id", args[1], "err", err)
			return err
		}
		fmt.Println("Deleted")
		return nil

	default:
		fmt.Println("Usage: mri <list|analyze|show|delete> ...")
		return nil
	}
}

func printAnalysis(result *api.MRIAnalysis) {
	fmt.Printf("Image %s — detected: %v (confidence %.2f)\n", result.ImageID, result.Detected, result.Confidence)
	for _, r := range result.Regions {
		fmt.Printf("  %-16s %.2f at (%d,%d) %dx%d\n", r.Label, r.Confidence, r.X, r.Y, r.Width, r.Height)
	}
	if result.Notes != "" {
		fmt.Println(" ", result.Notes)
	}
}

// Ping probes backend liveness and reports the result.
func (a *App) Ping(ctx context.Context) error {
	if err := a.auth.Ping(ctx); err != nil {
		fmt.Println("Backend unreachable:", err)
		return err
	}
	fmt.Println("Backend is up")
	return nil
}
