package webapp

import "net/http"

// faqEntry is a static help item; the FAQ is served locally, no backend call.
type faqEntry struct {
	Question string
	Answer   string
}

var faqEntries = []faqEntry{
	{
		Question: "Как войти в систему?",
		Answer:   "Введите ваш токен доступа (минимум 32 символа) на странице входа. Если для аккаунта включено подтверждение через Telegram, подтвердите вход в боте по показанному коду.",
	},
	{
		Question: "Почему меня разлогинило?",
		Answer:   "Сессия завершается, если сервер перестал принимать ваш токен. Войдите заново; текущая страница откроется после входа.",
	},
	{
		Question: "Как выгрузить транзакции?",
		Answer:   "На странице «Транзакции» нажмите «Экспорт» — выгрузка учитывает выбранные фильтры и сохраняется в формате XLSX.",
	},
	{
		Question: "Почему страница заказов обновляется сама?",
		Answer:   "Список заказов синхронизируется с очередью каждые 30 секунд, чтобы вы видели новые заказы без ручного обновления.",
	},
	{
		Question: "Что делать, если операция не прошла?",
		Answer:   "Сообщение об ошибке приходит от процессингового сервера. Состояние на странице остаётся актуальным; повторите операцию или обратитесь в поддержку.",
	},
}

func (a *App) handleFAQ(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "faq.html", "Вопросы и ответы", faqEntries)
}
