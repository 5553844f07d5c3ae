package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/realtyblog/internal/config"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/service"
)

func main() {
	var username, password string
	var reset bool
	flag.StringVar(&username, "username", "", "admin username (defaults to ADMIN_USERNAME or admin)")
	flag.StringVar(&password, "password", "", "admin password (defaults to ADMIN_PASSWORD)")
	flag.BoolVar(&reset, "reset", false, "replace the password of an existing admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load config", err)
	}
	if username == "" {
		username = cfg.AdminUsername
	}
	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = cfg.AdminPassword
	}
	if strings.TrimSpace(password) == "" {
		fmt.Fprintln(os.Stderr, "password is required: pass -password or set ADMIN_PASSWORD")
		os.Exit(2)
	}

	// 初始化数据库
	gdb, err := db.Open(cfg.Database, nil)
	if err != nil {
		fail("open database", err)
	}
	if err := db.Migrate(gdb); err != nil {
		fail("migrate database", err)
	}

	ctx := context.Background()
	admins := service.NewAdminService(gdb)

	if reset {
		err := admins.SetPassword(ctx, username, password)
		switch {
		case err == nil:
			fmt.Printf("管理员 %s 的密码已重置\n", username)
			return
		case !errors.Is(err, service.ErrAdminNotFound):
			fail("reset password", err)
		}
	}

	created, err := admins.EnsureUser(ctx, username, password)
	if err != nil {
		fail("create admin", err)
	}
	if !created {
		fmt.Printf("管理员 %s 已存在，如需修改密码请使用 -reset\n", username)
		return
	}
	fmt.Printf("管理员 %s 创建成功\n", username)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
