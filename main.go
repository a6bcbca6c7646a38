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

	"github.com/go-resty/resty/v2"
	semVer "github.com/hashicorp/go-version"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/auth"
	"github.com/uku3lig/uklient/cache"
	"github.com/uku3lig/uklient/install"
	"github.com/uku3lig/uklient/java"
	"github.com/uku3lig/uklient/meta"
	"github.com/uku3lig/uklient/modrinth"
	"github.com/uku3lig/uklient/profile"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

const (
	gameVersion     = "1.19.3"
	credentialsPath = "./credentials.json"
)

var (
	modpackId         string
	forceJavaDownload bool
	noLaunch          bool
	browserLogin      bool
	selfUpdate        bool
	noColours         bool
	verbose           bool

	logFile *os.File
)

func init() {
	if util.ReleaseVersion == "" || util.ReleaseVersion == "main" {
		util.ReleaseVersion = "v0.0.0-beta.0"
	}

	if util.GitCommit == "" {
		util.GitCommit = "Dev"
	}

	userAgentVersion := util.ReleaseVersion
	if strings.HasPrefix(util.ReleaseVersion, "v") {
		userAgentVersion = strings.TrimPrefix(util.ReleaseVersion, "v")
	}

	util.UserAgent = fmt.Sprintf("uklient/%s", userAgentVersion)
}

func main() {
	flag.StringVar(&modpackId, "modpack-id", "ukupvp", "specify the modpack to be downloaded")
	flag.BoolVar(&forceJavaDownload, "force-java-download", false, "always download java when launching")
	flag.BoolVar(&noLaunch, "no-launch", false, "don't launch the game, only install the modpack")
	flag.BoolVar(&browserLogin, "browser", false, "log in through the system browser instead of a device code")
	flag.BoolVar(&selfUpdate, "update", false, "update the installer to the latest release and exit")
	flag.BoolVar(&noColours, "no-colours", false, "Do not display console/terminal colours")
	flag.BoolVar(&verbose, "verbose", false, "Verbose output")
	flag.Parse()

	var err error
	logFile, err = os.OpenFile("uklient.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		panic(err)
	}
	defer logFile.Close()

	util.LogMw = io.MultiWriter(os.Stdout, util.NewCustomWriter(logFile))
	pterm.SetDefaultOutput(util.LogMw)

	if noColours {
		pterm.DisableStyling()
	}
	if verbose {
		pterm.EnableDebugMessages()
		pterm.Debug.Println("Verbose output enabled")
	}

	pterm.DefaultCenter.WithCenterEachLineSeparately().Printfln("uklient %s(%s)\n%s", util.ReleaseVersion, util.GitCommit, time.Now().UTC().Format(time.RFC1123))

	versionInfo, err := checkForUpdate()
	if err != nil {
		pterm.Warning.Printfln("Error checking for update: %v", err)
	}
	if versionInfo.UpdateAvailable {
		if selfUpdate {
			if err := doUpdate(versionInfo); err != nil {
				pterm.Fatal.Println("Error applying update:", err.Error())
			}
			return
		}
		pterm.Info.Printfln("Update available: %s, rerun with -update to apply", versionInfo.LatestVersion)
	} else if selfUpdate {
		pterm.Info.Println("Already up to date")
		return
	}

	ctx := context.Background()
	rest := resty.New().SetHeader("User-Agent", util.UserAgent)

	gv, err := semVer.NewVersion(gameVersion)
	if err != nil {
		pterm.Fatal.Println("Error parsing game version:", err.Error())
	}
	oneSeventeen := semVer.Must(semVer.NewVersion("1.17.0"))
	javaVersion := 8
	if gv.GreaterThanOrEqual(oneSeventeen) {
		javaVersion = 17
	}

	javaSettings, err := java.Get(rest, javaVersion, forceJavaDownload)
	if err != nil {
		pterm.Fatal.Println("Error getting java:", err.Error())
	}
	pterm.Debug.Printfln("Java %d at %s", javaSettings.Version, javaSettings.Path)

	metaClient := meta.NewClient(rest)
	mrClient := modrinth.NewClient(rest, metaClient)

	metadata, err := mrClient.GetMetadata(modpackId, gameVersion)
	if err != nil {
		pterm.Fatal.Println("Error getting modpack metadata:", err.Error())
	}
	pterm.Info.Printfln("Found %s %s on Minecraft %s", metadata.Loader, metadata.LoaderVersion.Id, gameVersion)

	prof, err := profile.Build(metadata, javaSettings, structs.MemorySettings{Maximum: 4 * 1024}, structs.WindowSize{Width: 1280, Height: 720})
	if err != nil {
		pterm.Fatal.Println("Error building profile:", err.Error())
	}
	if err := profile.Add(prof); err != nil {
		pterm.Fatal.Println("Error registering profile:", err.Error())
	}

	authClient := auth.NewClient(rest, credentialsPath)
	creds, err := authClient.Connect(ctx, browserLogin)
	if err != nil {
		pterm.Fatal.Println("Error connecting account:", err.Error())
	}
	pterm.Info.Printfln("Connected account %s", creds.Username)

	if err := installModpack(ctx, prof, metadata); err != nil {
		pterm.Fatal.Println("Error installing modpack:", err.Error())
	}
	pterm.Success.Println("Successfully installed modpack")

	if noLaunch {
		return
	}

	process, err := profile.Run(prof, creds, rest, meta.NewMojang(rest))
	if err != nil {
		pterm.Fatal.Println("Error launching game:", err.Error())
	}
	pterm.Info.Printfln("PID: %d", process.Process.Pid)

	if err := process.Wait(); err != nil {
		pterm.Error.Println("Game exited with error:", err.Error())
		os.Exit(1)
	}
	pterm.Info.Println("Goodbye!")
}

// installModpack runs cache -> extract -> manifest downloads -> overrides
// against the profile directory.
func installModpack(ctx context.Context, prof structs.Profile, metadata structs.ModpackMeta) error {
	c, err := cache.New(util.UserAgent)
	if err != nil {
		return err
	}

	archive, err := c.EnsureCached(metadata.File)
	if err != nil {
		return err
	}

	scratch, err := c.Extract(ctx, archive, strings.ReplaceAll(metadata.Name, " ", "_"))
	if err != nil {
		return err
	}

	index, err := cache.ReadIndex(scratch)
	if err != nil {
		return err
	}

	installer := install.New(util.UserAgent)
	return installer.Install(prof.Path, index, filepath.Join(scratch, "overrides"))
}
