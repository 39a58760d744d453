package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"vidhost/console/internal/guard"
	"vidhost/console/internal/service"
)

func (a *app) cmdVideos(ctx context.Context, args []string) error {
	if err := a.gate(guard.Route{Path: "/videos"}); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: console videos list|upload|edit|delete|check-title")
	}

	switch args[0] {
	case "list":
		return a.videosList(ctx, args[1:])
	case "upload":
		return a.videosUpload(ctx, args[1:])
	case "edit":
		return a.videosEdit(ctx, args[1:])
	case "delete":
		return a.videosDelete(ctx, args[1:])
	case "check-title":
		return a.videosCheckTitle(ctx, args[1:])
	default:
		return fmt.Errorf("unknown videos subcommand %q", args[0])
	}
}

func (a *app) videosList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 0, "page size override")
	_ = fs.Parse(args)

	if *size > 0 {
		a.videos.SetPageSize(*size)
	}
	if err := a.videos.SetPage(ctx, *page); err != nil {
		return err
	}

	for _, v := range a.videos.Videos() {
		fmt.Printf("%s\t%s\t%s\n", v.ID, v.Title, v.ThumbnailURL)
	}
	fmt.Printf("page %d/%d, %d total\n", a.videos.Page(), a.videos.TotalPages(), a.videos.Total())
	return nil
}

func (a *app) videosUpload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos upload", flag.ExitOnError)
	title := fs.String("title", "", "video title")
	description := fs.String("description", "", "video description")
	videoPath := fs.String("video", "", "path to the video file")
	thumbPath := fs.String("thumbnail", "", "path to the thumbnail image")
	_ = fs.Parse(args)

	video, closeVideo, err := openUpload(*videoPath)
	if err != nil {
		return err
	}
	defer closeVideo()

	thumb, closeThumb, err := openUpload(*thumbPath)
	if err != nil {
		return err
	}
	defer closeThumb()

	created, err := a.videos.Upload(ctx, service.UploadVideoInput{
		Title:       *title,
		Description: *description,
		Video:       video,
		Thumbnail:   thumb,
		OnProgress:  printProgress,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr)
	fmt.Printf("uploaded %s (%s)\n", created.Title, created.ID)
	return nil
}

func (a *app) videosEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("videos edit", flag.ExitOnError)
	id := fs.String("id", "", "video id")
	title := fs.String("title", "", "new title (empty keeps current)")
	description := fs.String("description", "", "new description (empty keeps current)")
	videoPath := fs.String("video", "", "replacement video file")
	thumbPath := fs.String("thumbnail", "", "replacement thumbnail")
	_ = fs.Parse(args)

	if a.videos.ShouldRefetch() {
		if err := a.videos.Load(ctx); err != nil {
			return err
		}
	}

	edit := service.VideoEdit{OnProgress: printProgress}
	if *title != "" {
		edit.Title = title
	}
	if *description != "" {
		edit.Description = description
	}
	if *videoPath != "" {
		f, closeF, err := openUpload(*videoPath)
		if err != nil {
			return err
		}
		defer closeF()
		edit.Video = f
	}
	if *thumbPath != "" {
		f, closeF, err := openUpload(*thumbPath)
		if err != nil {
			return err
		}
		defer closeF()
		edit.Thumbnail = f
	}

	updated, err := a.videos.Edit(ctx, *id, edit)
	if err != nil {
		if err == service.ErrNoChanges {
			fmt.Println("no changes")
			return nil
		}
		return err
	}
	fmt.Fprintln(os.Stderr)
	fmt.Printf("updated %s\n", updated.ID)
	return nil
}

func (a *app) videosDelete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: console videos delete <id> [id...]")
	}

	if a.videos.ShouldRefetch() {
		if err := a.videos.Load(ctx); err != nil {
			return err
		}
	}

	if len(args) == 1 {
		if err := a.videos.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	}

	for _, id := range args {
		a.videos.Select(id)
	}
	result, err := a.videos.BulkDelete(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d videos\n", result.DeletedCount)
	return nil
}

func (a *app) videosCheckTitle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: console videos check-title <title>")
	}
	available, err := a.titles.Available(ctx, args[0])
	if err != nil {
		return err
	}
	if available {
		fmt.Println("available")
	} else {
		fmt.Println("taken")
	}
	return nil
}

func openUpload(path string) (*service.FileUpload, func(), error) {
	if path == "" {
		return nil, func() {}, fmt.Errorf("file path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, func() {}, err
	}
	return &service.FileUpload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Reader:      f,
	}, func() { f.Close() }, nil
}

func printProgress(pct int) {
	fmt.Fprintf(os.Stderr, "\rtransferring... %d%%", pct)
}
