package service

import "github.com/yourusername/tutorconnect-api/internal/domain/entity"

// DefaultQuizzes возвращает встроенный каталог викторин
func DefaultQuizzes() []entity.Quiz {
	return []entity.Quiz{
		{
			ID:         "math-basics",
			Title:      "Основы алгебры",
			Subject:    "Mathematics",
			Difficulty: entity.DifficultyEasy,
			TimeLimit:  10,
			Questions: []entity.QuizQuestion{
				{
					ID:            "math-basics-1",
					Question:      "Чему равно x, если 2x + 3 = 11?",
					Options:       entity.StringArray{"3", "4", "5", "7"},
					CorrectAnswer: "4",
					Explanation:   "2x = 8, значит x = 4.",
				},
				{
					ID:            "math-basics-2",
					Question:      "Сколько будет 7 * 8?",
					Options:       entity.StringArray{"54", "56", "58", "64"},
					CorrectAnswer: "56",
				},
				{
					ID:            "math-basics-3",
					Question:      "Какое число является простым?",
					Options:       entity.StringArray{"9", "15", "17", "21"},
					CorrectAnswer: "17",
				},
			},
		},
		{
			ID:         "physics-motion",
			Title:      "Законы Ньютона",
			Subject:    "Physics",
			Difficulty: entity.DifficultyMedium,
			TimeLimit:  15,
			Questions: []entity.QuizQuestion{
				{
					ID:            "physics-motion-1",
					Question:      "Какая единица измерения силы в СИ?",
					Options:       entity.StringArray{"Джоуль", "Ньютон", "Ватт", "Паскаль"},
					CorrectAnswer: "Ньютон",
				},
				{
					ID:            "physics-motion-2",
					Question:      "F = m * ?",
					Options:       entity.StringArray{"v", "a", "t", "p"},
					CorrectAnswer: "a",
					Explanation:   "Второй закон Ньютона: сила равна массе, умноженной на ускорение.",
				},
			},
		},
		{
			ID:         "history-ww2",
			Title:      "Вторая мировая война",
			Subject:    "History",
			Difficulty: entity.DifficultyMedium,
			TimeLimit:  15,
			Questions: []entity.QuizQuestion{
				{
					ID:            "history-ww2-1",
					Question:      "В каком году началась Вторая мировая война?",
					Options:       entity.StringArray{"1914", "1939", "1941", "1945"},
					CorrectAnswer: "1939",
				},
				{
					ID:            "history-ww2-2",
					Question:      "В каком году закончилась Вторая мировая война?",
					Options:       entity.StringArray{"1943", "1944", "1945", "1946"},
					CorrectAnswer: "1945",
				},
			},
		},
		{
			ID:         "cs-algorithms",
			Title:      "Алгоритмы и структуры данных",
			Subject:    "Computer Science",
			Difficulty: entity.DifficultyHard,
			TimeLimit:  20,
			Questions: []entity.QuizQuestion{
				{
					ID:            "cs-algorithms-1",
					Question:      "Сложность бинарного поиска в отсортированном массиве?",
					Options:       entity.StringArray{"O(1)", "O(log n)", "O(n)", "O(n log n)"},
					CorrectAnswer: "O(log n)",
				},
				{
					ID:            "cs-algorithms-2",
					Question:      "Какая структура данных работает по принципу LIFO?",
					Options:       entity.StringArray{"Очередь", "Стек", "Куча", "Дерево"},
					CorrectAnswer: "Стек",
				},
				{
					ID:            "cs-algorithms-3",
					Question:      "Худшая сложность быстрой сортировки?",
					Options:       entity.StringArray{"O(n)", "O(n log n)", "O(n^2)", "O(2^n)"},
					CorrectAnswer: "O(n^2)",
				},
				{
					ID:            "cs-algorithms-4",
					Question:      "Какой обход графа использует очередь?",
					Options:       entity.StringArray{"DFS", "BFS", "Дейкстра", "Топологическая сортировка"},
					CorrectAnswer: "BFS",
				},
			},
		},
		{
			ID:         "english-grammar",
			Title:      "English Grammar",
			Subject:    "English",
			Difficulty: entity.DifficultyEasy,
			TimeLimit:  10,
			Questions: []entity.QuizQuestion{
				{
					ID:            "english-grammar-1",
					Question:      "Choose the correct form: She ___ to school every day.",
					Options:       entity.StringArray{"go", "goes", "going", "gone"},
					CorrectAnswer: "goes",
				},
				{
					ID:            "english-grammar-2",
					Question:      "Past tense of \"write\"?",
					Options:       entity.StringArray{"writed", "wrote", "written", "writes"},
					CorrectAnswer: "wrote",
				},
			},
		},
	}
}
