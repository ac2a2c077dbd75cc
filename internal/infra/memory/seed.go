package memory

import "ent-bot/internal/domain"

// SeedQuestions is the starter question bank used by the in-memory backend and `seed`.
func SeedQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Subject: "physics", Language: "ru", Text: "Какая формула описывает закон Ома?",
			OptionA: "U = I * R", OptionB: "P = U * I", OptionC: "F = m * a", OptionD: "E = m * c²",
			CorrectAnswer: domain.ChoiceA, Explanation: "Напряжение равно произведению тока на сопротивление"},
		{ID: 2, Subject: "physics", Language: "ru", Text: "Единица измерения силы в СИ:",
			OptionA: "Джоуль", OptionB: "Ньютон", OptionC: "Ватт", OptionD: "Паскаль",
			CorrectAnswer: domain.ChoiceB, Explanation: "Сила измеряется в ньютонах"},
		{ID: 3, Subject: "mathematics", Language: "ru", Text: "Чему равна производная функции f(x) = x²?",
			OptionA: "2x", OptionB: "x", OptionC: "2", OptionD: "x²",
			CorrectAnswer: domain.ChoiceA, Explanation: "(xⁿ)' = n·xⁿ⁻¹"},
		{ID: 4, Subject: "mathematics", Language: "ru", Text: "Решите уравнение: 2x + 5 = 11",
			OptionA: "x = 2", OptionB: "x = 3", OptionC: "x = 4", OptionD: "x = 5",
			CorrectAnswer: domain.ChoiceB, Explanation: "2x = 6, x = 3"},
		{ID: 5, Subject: "physics", Language: "kz", Text: "Ом заңының формуласы қандай?",
			OptionA: "U = I * R", OptionB: "P = U * I", OptionC: "F = m * a", OptionD: "E = m * c²",
			CorrectAnswer: domain.ChoiceA, Explanation: "Кернеу ток пен кедергінің көбейтіндісіне тең"},
		{ID: 6, Subject: "mathematics", Language: "kz", Text: "f(x) = x² функциясының туындысы неге тең?",
			OptionA: "2x", OptionB: "x", OptionC: "2", OptionD: "x²",
			CorrectAnswer: domain.ChoiceA, Explanation: "(xⁿ)' = n·xⁿ⁻¹"},
		{ID: 7, Subject: "physics", Language: "en", Text: "What is the formula for Ohm's law?",
			OptionA: "U = I * R", OptionB: "P = U * I", OptionC: "F = m * a", OptionD: "E = m * c²",
			CorrectAnswer: domain.ChoiceA, Explanation: "Voltage equals current times resistance"},
		{ID: 8, Subject: "mathematics", Language: "en", Text: "Solve: 2x + 5 = 11",
			OptionA: "x = 2", OptionB: "x = 3", OptionC: "x = 4", OptionD: "x = 5",
			CorrectAnswer: domain.ChoiceB, Explanation: "2x = 6, so x = 3"},
	}
}

// SeedMaterials is the starter material catalog.
func SeedMaterials() []domain.Material {
	const course = "https://www.youtube.com/watch?v=Om8HXEecOLA&t=241s"
	return []domain.Material{
		{ID: 1, Subject: "physics", Language: "ru", Topic: "Механика", Type: "video",
			Title: "Физика - Подготовка к ЕНТ", URL: course, Description: "Механика, динамика, кинематика"},
		{ID: 2, Subject: "physics", Language: "ru", Topic: "Электричество", Type: "video",
			Title: "Законы электричества", URL: course, Description: "Закон Ома, электрические цепи"},
		{ID: 3, Subject: "mathematics", Language: "ru", Topic: "Алгебра", Type: "video",
			Title: "Алгебра - Решение уравнений", URL: course, Description: "Квадратные уравнения, системы, неравенства"},
		{ID: 4, Subject: "mathematics", Language: "ru", Topic: "Геометрия", Type: "video",
			Title: "Геометрия - Планиметрия", URL: course, Description: "Треугольники, четырехугольники, окружности"},
		{ID: 5, Subject: "physics", Language: "kz", Topic: "Механика", Type: "video",
			Title: "Физика - ҰБТ дайындық", URL: course, Description: "Механика, динамика, кинематика"},
		{ID: 6, Subject: "mathematics", Language: "kz", Topic: "Алгебра", Type: "video",
			Title: "Математика - Теңдеулер шешу", URL: course, Description: "Квадрат теңдеулер, теңсіздіктер"},
	}
}
