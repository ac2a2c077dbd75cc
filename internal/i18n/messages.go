package i18n

// messages is keyed by language code, then message key. Values are fmt-style formats.
var messages = map[string]map[string]string{
	Russian: {
		"welcome":              "👋 Добро пожаловать в бот подготовки к ЕНТ, %s!\n\nВыберите язык:",
		"language_selected":    "✅ Язык сохранён.",
		"main_menu":            "📚 Главное меню. Выберите раздел:",
		"choose_language":      "Выберите язык:",
		"btn_test":             "📝 Тесты",
		"btn_schedule":         "📅 Расписание",
		"btn_top":              "🏆 Рейтинг",
		"btn_materials":        "📖 Материалы",
		"btn_profile":          "👤 Профиль",
		"btn_back":             "◀️ Назад",
		"btn_exit_quiz":        "❌ Завершить тест",
		"choose_subject":       "Выберите предмет для теста:",
		"choose_material":      "Выберите предмет:",
		"subject_physics":      "Физика",
		"subject_mathematics":  "Математика",
		"no_tests":             "Нет доступных тестов по предмету %s",
		"test_question":        "Вопрос %d/%d",
		"correct_answer":       "✅ Правильно!",
		"wrong_answer":         "❌ Неправильно. Правильный ответ: %s",
		"test_result":          "📊 Результат теста\n\nПравильных ответов: %d/%d\nПроцент: %d%%\nПолучено баллов: +%d",
		"quiz_interrupted":     "Тест прерван. Баллы не начислены.",
		"session_expired":      "Сессия теста истекла. Начните тест заново: /test",
		"store_unavailable":    "⚠️ Сервис временно недоступен. Повторите действие позже.",
		"register_first":       "Сначала нажмите /start",
		"schedule_title":       "📅 Расписание занятий",
		"no_schedule":          "Расписание пока пустое.",
		"leaderboard_title":    "🏆 Топ участников",
		"leaderboard_entry":    "%d. %s: %d баллов (уровень %d)",
		"no_leaderboard":       "Рейтинг пока пуст.",
		"profile":              "👤 %s\nБаллы: %d\nУровень: %d\nЯзык: %s",
		"materials_title":      "📖 Материалы: %s",
		"no_materials":         "Материалов по этому предмету пока нет.",
		"help":                 "Команды:\n/start - начать\n/test - пройти тест\n/schedule - расписание\n/top - рейтинг\n/materials - материалы\n/language - сменить язык",
		"unknown_command":      "Неизвестная команда. /help - список команд.",
		"monday":               "Понедельник",
		"tuesday":              "Вторник",
		"wednesday":            "Среда",
		"thursday":             "Четверг",
		"friday":               "Пятница",
		"saturday":             "Суббота",
		"sunday":               "Воскресенье",
		"not_admin":            "⛔ У вас нет прав администратора.",
		"admin_panel":          "🔧 Панель администратора",
		"admin_btn_add":        "➕ Добавить занятие",
		"admin_btn_view":       "📅 Просмотр расписания",
		"admin_btn_delete":     "🗑 Удалить занятие",
		"admin_btn_broadcast":  "📢 Рассылка",
		"admin_btn_stats":      "📊 Статистика",
		"wizard_day":           "Выберите день недели:",
		"wizard_time_start":    "Выберите время начала:",
		"wizard_time_manual":   "Введите время в формате ЧЧ:ММ:",
		"wizard_time_end":      "Выберите время окончания или пропустите:",
		"wizard_btn_custom":    "✏️ Ввести вручную",
		"wizard_btn_skip":      "⏭ Пропустить",
		"wizard_subject":       "Выберите предмет:",
		"wizard_topic":         "Введите тему занятия (или - чтобы пропустить):",
		"wizard_teacher":       "Введите имя преподавателя (или - чтобы пропустить):",
		"wizard_classroom":     "Введите номер аудитории (или - чтобы пропустить):",
		"wizard_required":      "Это поле обязательно.",
		"wizard_unexpected":    "Используйте кнопки ниже.",
		"wizard_saved":         "✅ Занятие добавлено в расписание!",
		"wizard_cancelled":     "Добавление занятия отменено.",
		"field_day":            "📅 День: %s",
		"field_time":           "🕐 Время: %s",
		"field_subject":        "📚 Предмет: %s",
		"field_topic":          "📝 Тема: %s",
		"field_teacher":        "👨‍🏫 Преподаватель: %s",
		"field_classroom":      "🚪 Аудитория: %s",
		"schedule_delete_pick": "Выберите занятие для удаления:",
		"schedule_deleted":     "🗑 Занятие удалено.",
		"schedule_not_found":   "Занятие не найдено.",
		"broadcast_usage":      "Использование: /broadcast <текст>",
		"broadcast_prefix":     "📢 %s",
		"broadcast_done":       "📢 Рассылка завершена.\nУспешно: %d\nОшибок: %d",
		"stats":                "📊 Статистика\n\nВсего пользователей: %d\nАктивных: %d",
		"stats_language":       "%s: %d",
	},
	Kazakh: {
		"welcome":             "👋 ҰБТ-ға дайындық ботына қош келдіңіз, %s!\n\nТілді таңдаңыз:",
		"language_selected":   "✅ Тіл сақталды.",
		"main_menu":           "📚 Басты мәзір. Бөлімді таңдаңыз:",
		"choose_language":     "Тілді таңдаңыз:",
		"btn_test":            "📝 Тесттер",
		"btn_schedule":        "📅 Кесте",
		"btn_top":             "🏆 Рейтинг",
		"btn_materials":       "📖 Материалдар",
		"btn_profile":         "👤 Профиль",
		"btn_back":            "◀️ Артқа",
		"btn_exit_quiz":       "❌ Тестті аяқтау",
		"choose_subject":      "Тест үшін пәнді таңдаңыз:",
		"choose_material":     "Пәнді таңдаңыз:",
		"subject_physics":     "Физика",
		"subject_mathematics": "Математика",
		"no_tests":            "%s пәні бойынша тесттер жоқ",
		"test_question":       "Сұрақ %d/%d",
		"correct_answer":      "✅ Дұрыс!",
		"wrong_answer":        "❌ Қате. Дұрыс жауап: %s",
		"test_result":         "📊 Тест нәтижесі\n\nДұрыс жауаптар: %d/%d\nПайыз: %d%%\nАлынған ұпай: +%d",
		"quiz_interrupted":    "Тест тоқтатылды. Ұпай берілмеді.",
		"session_expired":     "Тест сессиясы аяқталды. Тестті қайта бастаңыз: /test",
		"store_unavailable":   "⚠️ Қызмет уақытша қолжетімсіз. Кейінірек қайталаңыз.",
		"register_first":      "Алдымен /start басыңыз",
		"schedule_title":      "📅 Сабақ кестесі",
		"no_schedule":         "Кесте әзірге бос.",
		"leaderboard_title":   "🏆 Үздік қатысушылар",
		"leaderboard_entry":   "%d. %s: %d ұпай (деңгей %d)",
		"no_leaderboard":      "Рейтинг әзірге бос.",
		"profile":             "👤 %s\nҰпай: %d\nДеңгей: %d\nТіл: %s",
		"materials_title":     "📖 Материалдар: %s",
		"no_materials":        "Бұл пән бойынша материалдар әзірге жоқ.",
		"help":                "Командалар:\n/start - бастау\n/test - тест тапсыру\n/schedule - кесте\n/top - рейтинг\n/materials - материалдар\n/language - тілді өзгерту",
		"unknown_command":     "Белгісіз команда. /help - командалар тізімі.",
		"monday":              "Дүйсенбі",
		"tuesday":             "Сейсенбі",
		"wednesday":           "Сәрсенбі",
		"thursday":            "Бейсенбі",
		"friday":              "Жұма",
		"saturday":            "Сенбі",
		"sunday":              "Жексенбі",
	},
	English: {
		"welcome":             "👋 Welcome to the UNT preparation bot, %s!\n\nChoose your language:",
		"language_selected":   "✅ Language saved.",
		"main_menu":           "📚 Main menu. Choose a section:",
		"choose_language":     "Choose your language:",
		"btn_test":            "📝 Tests",
		"btn_schedule":        "📅 Schedule",
		"btn_top":             "🏆 Leaderboard",
		"btn_materials":       "📖 Materials",
		"btn_profile":         "👤 Profile",
		"btn_back":            "◀️ Back",
		"btn_exit_quiz":       "❌ Finish test",
		"choose_subject":      "Choose a subject for the test:",
		"choose_material":     "Choose a subject:",
		"subject_physics":     "Physics",
		"subject_mathematics": "Mathematics",
		"no_tests":            "No tests available for %s",
		"test_question":       "Question %d/%d",
		"correct_answer":      "✅ Correct!",
		"wrong_answer":        "❌ Wrong. Correct answer: %s",
		"test_result":         "📊 Test result\n\nCorrect answers: %d/%d\nPercentage: %d%%\nPoints earned: +%d",
		"quiz_interrupted":    "Test interrupted. No points awarded.",
		"session_expired":     "Your test session has expired. Start again: /test",
		"store_unavailable":   "⚠️ Service temporarily unavailable. Please try again later.",
		"register_first":      "Please press /start first",
		"schedule_title":      "📅 Class schedule",
		"no_schedule":         "The schedule is empty.",
		"leaderboard_title":   "🏆 Top participants",
		"leaderboard_entry":   "%d. %s: %d points (level %d)",
		"no_leaderboard":      "The leaderboard is empty.",
		"profile":             "👤 %s\nPoints: %d\nLevel: %d\nLanguage: %s",
		"materials_title":     "📖 Materials: %s",
		"no_materials":        "No materials for this subject yet.",
		"help":                "Commands:\n/start - start\n/test - take a test\n/schedule - schedule\n/top - leaderboard\n/materials - materials\n/language - change language",
		"unknown_command":     "Unknown command. /help lists the commands.",
		"monday":              "Monday",
		"tuesday":             "Tuesday",
		"wednesday":           "Wednesday",
		"thursday":            "Thursday",
		"friday":              "Friday",
		"saturday":            "Saturday",
		"sunday":              "Sunday",
	},
}
