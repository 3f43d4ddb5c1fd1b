package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// 状态提示 / Status lines
	"status.list_created":     "已创建新清单。",
	"status.list_saved":       "清单已保存。",
	"status.list_renamed":     "清单已重命名为 %q。",
	"status.list_removed":     "已删除清单 %q。",
	"status.item_added":       "已添加 #%d %q。",
	"status.item_updated":     "已更新 #%d。",
	"status.item_completed":   "#%d 已标记为完成。",
	"status.item_reopened":    "#%d 已标记为未完成。",
	"status.item_removed":     "已删除 #%d %q。",
	"status.reminder_set":     "提醒已设置在 %s。",
	"status.reminder_off":     "提醒已取消。",
	"status.exported":         "已导出 %d 个清单到 %s。",
	"status.imported":         "已导入 %d 个清单。",
	"status.config_written":   "已写入 %s。",
	"status.reminders_active": "有 %d 个待触发的提醒。",

	// 提醒 / Alarm
	"alarm.remember": "别忘了：%s",

	// 列表 / Listing
	"list.empty":        "还没有清单。使用 todo new <标题> 创建一个",
	"list.no_items":     "这个清单是空的。",
	"list.header":       "%s（已完成 %d/%d）",
	"list.modified":     "修改于 %s",
	"list.reminder":     "提醒 %s",
	"list.column_id":    "编号",
	"list.column_title": "标题",
	"list.column_items": "条目",

	// 交互模式 / Shell
	"shell.welcome": "listkeeper 交互模式。输入 \"help\" 查看命令，\"exit\" 退出。",

	"shell.help": `命令：
  lists                         显示所有清单
  show <清单>                   显示一个清单
  new <标题>                    创建清单
  add <清单> <内容>             添加条目
  done <清单> <n>               切换完成状态
  remind <清单> <n> [时间]      设置提醒（--off 取消）
  rm <清单>                     删除清单
  pending                       显示待触发的提醒
  sleep [时长]                  等待，期间提醒照常触发
  exit                          退出`,

	"shell.bye":     "再见。",
	"shell.unknown": "未知命令 %q。输入 \"help\" 查看帮助。",

	// 错误 / Errors
	"error.schedule":       "无法设置提醒！",
	"error.save":           "无法保存清单：%s",
	"error.load":           "无法加载清单：%s",
	"error.delete":         "无法删除清单：%s",
	"error.list_not_found": "没有匹配 %q 的清单。",
	"error.list_ambiguous": "%q 匹配了多个清单，请使用编号。",
	"error.bad_index":      "这个清单没有第 %s 项。",
	"error.bad_time":       "无法识别时间 %q。",
	"error.past_time":      "提醒时间 %s 已经过去。",
}
