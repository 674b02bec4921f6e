package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spaceclicker/internal/ops"
	"spaceclicker/internal/save"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmds := map[string]func([]string) error{
		"backup":  cmdBackup,
		"restore": cmdRestore,
		"drill":   cmdDrill,
		"list":    cmdList,
		"export":  cmdExport,
		"import":  cmdImport,
		"migrate": cmdMigrate,
	}
	run, ok := cmds[os.Args[1]]
	if !ok {
		printUsage()
		os.Exit(2)
	}
	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func cmdBackup(args []string) error {
	fs := flag.NewFlagSet("backup", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	now := time.Now().UTC()
	if *out == "" {
		*out = filepath.Join("backups", "spaceclicker-"+now.Format("20060102T150405Z")+".tar.gz")
	}
	m, err := ops.Backup(*dataDir, *out, now)
	if err != nil {
		return err
	}
	fmt.Println(*out)
	fmt.Println("files:", len(m.Files))
	fmt.Println("digest:", m.Digest)
	return nil
}

func cmdRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	archive := fs.String("archive", "", "input backup archive (.tar.gz)")
	target := fs.String("target-dir", "data-restored", "restore target directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *archive == "" {
		return fmt.Errorf("archive is required")
	}
	m, err := ops.Restore(*archive, *target)
	if err != nil {
		return err
	}
	fmt.Println("restored:", *target)
	fmt.Println("created:", m.CreatedAt.Format(time.RFC3339))
	return nil
}

// cmdDrill backs up and restores into a scratch directory, which fails unless
// the restored tree matches the manifest digest.
func cmdDrill(args []string) error {
	fs := flag.NewFlagSet("drill", flag.ContinueOnError)
	dataDir := fs.String("data-dir", "data", "path to data directory")
	workDir := fs.String("work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.MkdirAll(*workDir, 0o755); err != nil {
		return err
	}
	now := time.Now().UTC()
	ts := now.Format("20060102T150405Z")
	archive := filepath.Join(*workDir, "spaceclicker-drill-"+ts+".tar.gz")
	restoreDir := filepath.Join(*workDir, "spaceclicker-drill-restore-"+ts)

	m, err := ops.Backup(*dataDir, archive, now)
	if err != nil {
		return err
	}
	if _, err := ops.Restore(archive, restoreDir); err != nil {
		return err
	}

	fmt.Println("backup:", archive)
	fmt.Println("restored:", restoreDir)
	fmt.Println("digest:", m.Digest)
	return nil
}

// openRepo resolves "file:<dir>", "sqlite:<path>" or a bare directory.
func openRepo(spec string) (save.Repository, func() error, error) {
	noop := func() error { return nil }
	kind, path, ok := strings.Cut(spec, ":")
	if !ok {
		kind, path = "file", spec
	}
	switch kind {
	case "file":
		r, err := save.NewFileRepo(path)
		return r, noop, err
	case "sqlite":
		db, err := save.OpenSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		r := save.NewSQLiteRepo(db)
		return r, r.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q: want file:<dir> or sqlite:<path>", kind)
	}
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	store := fs.String("store", "file:data/saves", "save store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(*store)
	if err != nil {
		return err
	}
	defer closeRepo()

	infos, err := repo.List(context.Background())
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%-16s wave=%-4d level=%-3d saved=%s\n", info.Slot, info.Wave, info.Level, info.SavedAt.Format(time.RFC3339))
	}
	return nil
}

func cmdExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	store := fs.String("store", "file:data/saves", "save store")
	slot := fs.String("slot", "default", "slot name")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	repo, closeRepo, err := openRepo(*store)
	if err != nil {
		return err
	}
	defer closeRepo()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return ops.ExportSlot(context.Background(), repo, *slot, w)
}

func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	store := fs.String("store", "file:data/saves", "save store")
	slot := fs.String("slot", "default", "slot name")
	in := fs.String("in", "", "input JSON save")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("in is required")
	}
	repo, closeRepo, err := openRepo(*store)
	if err != nil {
		return err
	}
	defer closeRepo()

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	return ops.ImportSlot(context.Background(), repo, *slot, f)
}

func cmdMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	from := fs.String("from", "file:data/saves", "source store")
	to := fs.String("to", "sqlite:data/saves.db", "destination store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, closeSrc, err := openRepo(*from)
	if err != nil {
		return err
	}
	defer closeSrc()
	dst, closeDst, err := openRepo(*to)
	if err != nil {
		return err
	}
	defer closeDst()

	copied, err := ops.CopySlots(context.Background(), src, dst)
	for _, slot := range copied {
		fmt.Println("copied:", slot)
	}
	return err
}

func printUsage() {
	fmt.Println("usage:")
	fmt.Println("  spaceclicker-ops backup  --data-dir data --out backups/backup.tar.gz")
	fmt.Println("  spaceclicker-ops restore --archive backups/backup.tar.gz --target-dir data-restored")
	fmt.Println("  spaceclicker-ops drill   --data-dir data --work-dir /tmp")
	fmt.Println("  spaceclicker-ops list    --store file:data/saves")
	fmt.Println("  spaceclicker-ops export  --store sqlite:data/saves.db --slot default --out default.json")
	fmt.Println("  spaceclicker-ops import  --store file:data/saves --slot default --in default.json")
	fmt.Println("  spaceclicker-ops migrate --from file:data/saves --to sqlite:data/saves.db")
}
