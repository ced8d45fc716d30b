package registry

import "github.com/plantops/opsgate/internal/domain/route"

// Well-known paths referenced across the control plane.
const (
	HomePath             = "/"
	LoginPath            = "/auth/login"
	PermissionDeniedPath = "/permission-denied"
	// DefaultWorkspacePath is where users land after login when their
	// profile names no registered workspace.
	DefaultWorkspacePath = "/lab"
)

// Table returns the application route table. The table is defined once at
// process start; toggling Active is a redeploy, not a runtime operation.
func Table() []route.Descriptor {
	return []route.Descriptor{
		{
			Path:     HomePath,
			Name:     "home",
			Title:    "首页",
			Strategy: route.StrategyNone,
			PageType: route.PagePublic,
			Active:   true,
			Metadata: route.Metadata{Category: "general", Icon: "home", Order: 1},
		},
		{
			Path:     LoginPath,
			Name:     "login",
			Title:    "登录",
			Strategy: route.StrategyNone,
			PageType: route.PageAuth,
			Active:   true,
			Metadata: route.Metadata{Category: "auth", Hidden: true},
		},
		{
			Path:     PermissionDeniedPath,
			Name:     "permission-denied",
			Title:    "无权限",
			Strategy: route.StrategyNone,
			PageType: route.PagePublic,
			Active:   true,
			Metadata: route.Metadata{Category: "general", Hidden: true},
		},
		{
			Path:          "/lab",
			Name:          "lab",
			Title:         "化验室工作台",
			Strategy:      route.StrategySimple,
			PageType:      route.PageWorkspace,
			WorkspaceName: "化验室",
			Active:        true,
			Metadata:      route.Metadata{Category: "workspace", Icon: "flask", Order: 1},
		},
		{
			Path:          "/production",
			Name:          "production",
			Title:         "生产部工作台",
			Strategy:      route.StrategySimple,
			PageType:      route.PageWorkspace,
			WorkspaceName: "生产部",
			Active:        true,
			Metadata:      route.Metadata{Category: "workspace", Icon: "factory", Order: 2},
		},
		{
			Path:          "/purchasing",
			Name:          "purchasing",
			Title:         "采购部工作台",
			Strategy:      route.StrategySimple,
			PageType:      route.PageWorkspace,
			WorkspaceName: "采购部",
			Active:        true,
			Metadata:      route.Metadata{Category: "workspace", Icon: "cart", Order: 3},
		},
		{
			Path:     "/shift-sample",
			Name:     "shift-sample",
			Title:    "班样记录",
			Strategy: route.StrategySimple,
			PageType: route.PageSample,
			Active:   true,
			Metadata: route.Metadata{Category: "sample", Icon: "beaker", Order: 1},
		},
		{
			Path:     "/sample-storage",
			Name:     "sample-storage",
			Title:    "留样管理",
			Strategy: route.StrategySimple,
			PageType: route.PageSample,
			Active:   true,
			Metadata: route.Metadata{Category: "sample", Icon: "archive", Order: 2},
		},
		{
			Path:     "/tasks",
			Name:     "tasks",
			Title:    "任务跟踪",
			Strategy: route.StrategySimple,
			PageType: route.PageSystem,
			Active:   true,
			Metadata: route.Metadata{Category: "system", Icon: "list", Order: 1},
		},
		{
			Path:     "/profile",
			Name:     "profile",
			Title:    "个人中心",
			Strategy: route.StrategySimple,
			PageType: route.PageSystem,
			Active:   true,
			Metadata: route.Metadata{Category: "system", Icon: "user"},
		},
		{
			Path:     "/reports",
			Name:     "reports",
			Title:    "生产报表",
			Strategy: route.StrategyExternalIdentity,
			PageType: route.PageSystem,
			Active:   true,
			Metadata: route.Metadata{Category: "system", Icon: "chart", Order: 2},
		},
		{
			Path:          "/boss",
			Name:          "boss",
			Title:         "老板驾驶舱",
			Strategy:      route.StrategyAdmin,
			PageType:      route.PageAdmin,
			RequiredRoles: []string{"老板", "总经理"},
			Active:        true,
			Metadata:      route.Metadata{Category: "admin", Icon: "crown", Order: 1},
		},
		{
			Path:          "/admin/settings",
			Name:          "admin-settings",
			Title:         "系统设置",
			Strategy:      route.StrategyAdmin,
			PageType:      route.PageAdmin,
			RequiredRoles: []string{"老板", "总经理", "系统管理员"},
			Active:        true,
			Metadata:      route.Metadata{Category: "admin", Icon: "gear", Order: 2},
		},
		{
			// Retired dashboard kept in the table so the edge gate can
			// bounce stale bookmarks back to home.
			Path:     "/legacy-dashboard",
			Name:     "legacy-dashboard",
			Title:    "旧版仪表盘",
			Strategy: route.StrategySimple,
			PageType: route.PageSystem,
			Active:   false,
			Metadata: route.Metadata{Category: "system", Hidden: true},
		},
	}
}
