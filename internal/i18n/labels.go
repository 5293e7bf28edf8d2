// Package i18n holds the bilingual label dictionary and the category display
// mapping, and translates record sets between the two supported locales.
package i18n

import "ledgerpro/internal/core"

var labels = map[string]map[core.Locale]string{
	"app_title":      {core.CN: "我的账本", core.EN: "My Ledger Pro"},
	"sidebar_title":  {core.CN: "📚 账本列表", core.EN: "📚 Ledgers"},
	"current_ledger": {core.CN: "当前账本", core.EN: "Current Ledger"},
	"total_income":   {core.CN: "总收入", core.EN: "Total Income"},
	"total_expense":  {core.CN: "总支出", core.EN: "Total Expense"},
	"balance":        {core.CN: "结余", core.EN: "Net Balance"},
	"header_entry":   {core.CN: "✨ 记一笔", core.EN: "✨ New Transaction"},

	"date":     {core.CN: "日期", core.EN: "Date"},
	"type":     {core.CN: "类型", core.EN: "Type"},
	"category": {core.CN: "分类", core.EN: "Category"},
	"amount":   {core.CN: "金额", core.EN: "Amount"},
	"note":     {core.CN: "备注", core.EN: "Note"},
	"income":   {core.CN: "收入", core.EN: "Income"},
	"expense":  {core.CN: "支出", core.EN: "Expense"},

	"btn_save": {core.CN: "💾 立即保存", core.EN: "💾 Save Record"},

	"tab_overview": {core.CN: "📊 概览", core.EN: "📊 Dashboard"},
	"tab_stats":    {core.CN: "📅 统计日历", core.EN: "📅 Calendar"},
	"tab_data":     {core.CN: "📋 明细", core.EN: "📋 Records"},
	"tab_report":   {core.CN: "📑 财务报告", core.EN: "📑 Reports"},
	"tab_del":      {core.CN: "删除记录", core.EN: "Delete Record"},

	"filter_label":  {core.CN: "🔍 筛选与搜索", core.EN: "🔍 Filter & Search"},
	"filter_cat":    {core.CN: "按分类", core.EN: "By Category"},
	"filter_type":   {core.CN: "按类型", core.EN: "By Type"},
	"all":           {core.CN: "全部", core.EN: "All"},
	"settings":      {core.CN: "⚙️ 设置", core.EN: "⚙️ Settings"},
	"create_ledger": {core.CN: "创建新账本", core.EN: "Create Ledger"},
	"manage_cats":   {core.CN: "分类管理", core.EN: "Categories"},
	"welcome":       {core.CN: "欢迎回来！", core.EN: "Welcome Back!"},
	"empty":         {core.CN: "暂无数据，快去记一笔吧！", core.EN: "No records yet. Add one now!"},

	"cal_view":   {core.CN: "视图模式", core.EN: "View Mode"},
	"view_month": {core.CN: "月视图", core.EN: "Month"},
	"view_week":  {core.CN: "周视图", core.EN: "Week"},
	"cal_date":   {core.CN: "选择日期", core.EN: "Select Date"},

	"composition":    {core.CN: "收支构成", core.EN: "Composition"},
	"recent_trend":   {core.CN: "近期趋势", core.EN: "Recent Trend"},
	"monthly_chart":  {core.CN: "月度收支对比", core.EN: "Monthly Income vs Expense"},
	"expense_ranked": {core.CN: "钱都花在哪了？", core.EN: "Where did money go?"},

	"report_type":   {core.CN: "报告类型", core.EN: "Report Type"},
	"rep_weekly":    {core.CN: "周报 (Weekly)", core.EN: "Weekly"},
	"rep_monthly":   {core.CN: "月报 (Monthly)", core.EN: "Monthly"},
	"rep_yearly":    {core.CN: "年报 (Yearly)", core.EN: "Yearly"},
	"sel_week":      {core.CN: "选择周 (点击该周任意一天)", core.EN: "Select Week (Pick any day)"},
	"sel_month":     {core.CN: "选择月份 (点击该月任意一天)", core.EN: "Select Month"},
	"sel_year":      {core.CN: "选择年份", core.EN: "Select Year"},
	"gen_report":    {core.CN: "生成报告", core.EN: "Generate Report"},
	"summary":       {core.CN: "汇总摘要", core.EN: "Summary"},
	"cat_breakdown": {core.CN: "分类详情", core.EN: "Category Breakdown"},
	"download_excel": {core.CN: "📥 导出 Excel 报告", core.EN: "📥 Download Excel Report"},

	"export_balancing": {core.CN: "平衡调整", core.EN: "Balancing Entry"},
	"export_total":     {core.CN: "合计", core.EN: "Total"},

	"saved":              {core.CN: "✅ 已保存!", core.EN: "✅ Saved Successfully!"},
	"amount_positive":    {core.CN: "金额必须大于 0", core.EN: "Amount must be > 0"},
	"category_required":  {core.CN: "请选择分类", core.EN: "Please choose a category"},
	"ledger_required":    {core.CN: "请先选择账本", core.EN: "Please select a ledger"},
	"date_required":      {core.CN: "日期无效", core.EN: "Invalid date"},
	"type_required":      {core.CN: "类型无效", core.EN: "Invalid type"},
	"no_ledgers":         {core.CN: "⚠️ 没有账本", core.EN: "⚠️ No Ledgers"},
	"ledger_created":     {core.CN: "✅ 账本已创建", core.EN: "✅ Ledger created"},
	"name_required":      {core.CN: "名称不能为空", core.EN: "Name is required"},
	"duplicate_ledger":   {core.CN: "❌ 账本名称已存在", core.EN: "❌ A ledger with that name already exists"},
	"ledger_deleted":     {core.CN: "✅ 账本及所有数据已删除", core.EN: "✅ Ledger and all its data deleted"},
	"last_ledger":        {core.CN: "❌ 无法删除：系统中必须至少保留一个账本！", core.EN: "❌ Cannot delete: at least one ledger must remain!"},
	"ledger_missing":     {core.CN: "❌ 账本不存在", core.EN: "❌ Ledger not found"},
	"delete_failed":      {core.CN: "❌ 删除失败", core.EN: "❌ Delete failed"},
	"category_added":     {core.CN: "分类已添加", core.EN: "Tag added"},
	"category_removed":   {core.CN: "分类已删除", core.EN: "Tag removed"},
	"duplicate_category": {core.CN: "❌ 分类已存在", core.EN: "❌ Category already exists"},
	"record_deleted":     {core.CN: "✅ 记录已删除", core.EN: "✅ Record deleted"},
	"record_missing":     {core.CN: "记录不存在", core.EN: "Record not found"},
}

// Translate returns the text of key in locale, or key itself when either is unknown.
func Translate(key string, locale core.Locale) string {
	byLocale, ok := labels[key]
	if !ok {
		return key
	}
	if text, ok := byLocale[locale]; ok {
		return text
	}
	return key
}

// Keys lists every label key; used to check both locales are complete.
func Keys() []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	return keys
}
