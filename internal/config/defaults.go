package config

import "jobboard/discovery-service/internal/model"

// DefaultSources returns the built-in UAE job boards.
func DefaultSources() []model.Source {
	return []model.Source{
		{
			Name:     "Bayt",
			BaseURL:  "https://www.bayt.com",
			Currency: "AED",
			JobType:  "Full-time",
			SeedURLs: []string{
				"https://www.bayt.com/en/jobs/dot-net-developer-jobs-uae/",
				"https://www.bayt.com/en/jobs/c-sharp-developer-jobs-uae/",
				"https://www.bayt.com/en/jobs/full-stack-developer-jobs-uae/",
				"https://www.bayt.com/en/jobs/software-developer-jobs-uae/",
			},
			Selectors: model.Selectors{
				Card:        "div.jb-card",
				Title:       "h3.jb-card-title a",
				Company:     "div.jb-card-company a",
				Location:    "div.jb-card-location",
				Salary:      "div.jb-card-salary",
				Description: "div.jb-card-desc",
			},
			RequireCompany: true,
		},
		{
			Name:     "Dubizzle",
			BaseURL:  "https://dubizzle.com",
			Currency: "AED",
			JobType:  "Full-time",
			SeedURLs: []string{
				"https://dubizzle.com/jobs/technology/software-development/",
				"https://dubizzle.com/jobs/technology/web-development/",
			},
			Selectors: model.Selectors{
				Card:     "div[class*='listing']",
				Title:    "h3 a",
				Company:  "div[class*='company']",
				Location: "div[class*='location']",
			},
			DefaultCompany:  "Not specified",
			DefaultLocation: "UAE",
		},
		{
			Name:     "GulfTalent",
			BaseURL:  "https://www.gulftalent.com",
			Currency: "AED",
			JobType:  "Full-time",
			SeedURLs: []string{
				"https://www.gulftalent.com/jobs/software-developer-united-arab-emirates",
			},
			Selectors: model.Selectors{
				Card:        "div.job-results-card",
				Title:       "a.job-title",
				Company:     "span.company-name",
				Location:    "span.job-location",
				Salary:      "span.job-salary",
				Description: "p.job-summary",
				Benefits:    "ul.job-benefits li",
			},
			RequireCompany: true,
		},
		{
			Name:     "NaukriGulf",
			BaseURL:  "https://www.naukrigulf.com",
			Currency: "AED",
			JobType:  "Full-time",
			SeedURLs: []string{
				"https://www.naukrigulf.com/dot-net-developer-jobs-in-uae",
			},
			Selectors: model.Selectors{
				Card:         "div.ng-box.srp-tuple",
				Title:        "p.designation-title",
				Link:         "a.info-position",
				Company:      "a.info-org",
				Location:     "li.info-loc span",
				Salary:       "li.info-salary span",
				Description:  "p.description",
				Requirements: "div.skills",
			},
			RequireCompany: true,
		},
	}
}

// DefaultVocabulary returns the built-in keyword lists.
func DefaultVocabulary() model.Vocabulary {
	return model.Vocabulary{
		Technologies: []string{
			".NET", "C#", "ASP.NET", "MVC", "Web API", "Entity Framework", "Blazor",
			"JavaScript", "TypeScript", "React", "Angular", "Vue.js", "Node.js",
			"SQL Server", "MySQL", "PostgreSQL", "MongoDB", "Redis",
			"Azure", "AWS", "Docker", "Kubernetes", "Git", "DevOps",
		},
		Emirates: []string{
			"Dubai", "Abu Dhabi", "Sharjah", "Ajman", "Ras Al Khaimah", "Fujairah", "Umm Al Quwain",
		},
		DomainKeywords: []string{
			".net", "dotnet", "c#", "csharp", "asp.net", "mvc", "web api", "entity framework",
			"blazor", "xamarin", "maui", "wpf", "winforms", "azure", "sql server",
		},
		BonusKeywords: []string{
			".net", "c#", "asp.net", "entity framework", "blazor", "mvc", "web api",
		},
		FallbackKeywords: []string{".net", "c#"},
	}
}
