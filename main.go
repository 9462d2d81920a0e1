package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"AMProject/global"
	"AMProject/logger"
	assignment "AMProject/module/assignment"
	chat "AMProject/module/chat"
	notify "AMProject/module/notify"
	paysheet "AMProject/module/paysheet"
	submission "AMProject/module/submission"
	"AMProject/service/realtime"
	"AMProject/service/rest"
	"AMProject/tools/ids"
)

type view interface {
	Close()
}

func main() {
	var (
		configPath = flag.String("config", "", "path to client.yaml (default: ./client.yaml, ~/.amclient)")
		email      = flag.String("email", "", "login email (omit to reuse the stored session)")
		password   = flag.String("password", "", "login password")
		logout     = flag.Bool("logout", false, "revoke presence, clear the stored session and exit")
	)
	flag.Parse()

	cfg, err := global.LoadConfig(*configPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}
	logger.ConfigureFile(cfg.LogFile)
	ids.SetNodeID(cfg.NodeID)

	sess := global.NewSession(cfg.SessionFile)
	api := rest.NewClient(cfg, sess)
	ctx := context.Background()

	if *email != "" {
		if _, err := api.Login(ctx, *email, *password); err != nil {
			logger.Errorf("login: %v", err)
			os.Exit(1)
		}
		logger.Infof("logged in as %s (%s)", sess.Identity().Name, sess.Role())
	} else {
		restored, err := sess.Restore()
		if err != nil {
			logger.Errorf("restore session: %v", err)
			os.Exit(1)
		}
		if !restored || !sess.Valid() {
			logger.Errorf("no valid stored session; run with -email/-password")
			os.Exit(1)
		}
	}

	router := realtime.NewRouter()
	conn := realtime.NewConnManager(realtime.ManagerConf{
		URL:       cfg.WSURL,
		Reconnect: cfg.Reconnect,
	}, sess, router)

	if *logout {
		if err := conn.Connect(ctx); err == nil {
			_ = conn.Send(realtime.RemoveUser(sess.UserID()))
			conn.Close()
		}
		if err := api.Logout(); err != nil {
			logger.Errorf("logout: %v", err)
			os.Exit(1)
		}
		logger.Infof("session cleared")
		return
	}

	if err := conn.Connect(ctx); err != nil {
		logger.Errorf("connect push channel: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	views := openViews(ctx, cfg, sess, api, router)
	defer func() {
		for _, v := range views {
			v.Close()
		}
	}()

	logger.Infof("client running, role=%s connected=%v", sess.Role(), sess.Connected())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Infof("shutting down")
}

// openViews mounts the screens for the session's role. A failed initial
// fetch is not fatal: the view stays open with its inline banner set and
// reconverges on the next push-triggered refresh.
func openViews(ctx context.Context, cfg *global.Config, sess *global.Session, api *rest.Client, router *realtime.Router) []view {
	var views []view
	g, gctx := errgroup.WithContext(ctx)

	open := func(v view, f func(context.Context) error) {
		views = append(views, v)
		g.Go(func() error {
			if err := f(gctx); err != nil {
				logger.Warnf("initial fetch failed: %v", err)
			}
			return nil
		})
	}

	bell := notify.NewBell(notify.NewService(api), router, sess.UserID(), cfg.BannerTTL)
	open(bell, bell.Open)

	convs := chat.NewConversationsView(chat.NewService(api), router, cfg.BannerTTL)
	open(convs, convs.Open)

	assignments := assignment.NewListView(assignment.NewService(api), router, cfg.BannerTTL)
	open(assignments, assignments.Open)

	if sess.Role() == global.RoleAdmin {
		intake := submission.NewFeedView(submission.NewService(api), router, cfg.BannerTTL)
		open(intake, intake.Open)

		sheets := paysheet.NewListView(paysheet.NewService(api), router, cfg.BannerTTL)
		open(sheets, sheets.Open)
	}

	_ = g.Wait()
	return views
}
