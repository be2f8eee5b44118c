package core

import (
	"cinedex-backend-go/internal/models"
	"cinedex-backend-go/internal/tmdb"
)

func releaseYear(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func toSummary(genres *FilterCatalogue, m tmdb.MovieResult) models.MovieSummary {
	return models.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		Overview:    m.Overview,
		PosterPath:  m.PosterPath,
		PosterURL:   tmdb.BuildPosterURL(m.PosterPath),
		BackdropURL: tmdb.BuildImageURL(tmdb.SizeBackdropW1280, m.BackdropPath),
		ReleaseDate: m.ReleaseDate,
		Year:        releaseYear(m.ReleaseDate),
		VoteAverage: m.Score(),
		Popularity:  m.Popularity,
		Genres:      genres.Names(m.GenreIDs),
	}
}

func toSummaries(genres *FilterCatalogue, results []tmdb.MovieResult) []models.MovieSummary {
	out := make([]models.MovieSummary, 0, len(results))
	for _, m := range results {
		out = append(out, toSummary(genres, m))
	}
	return out
}

func toPerson(p tmdb.Person) models.PersonSummary {
	return models.PersonSummary{
		ID:                 p.ID,
		Name:               p.Name,
		ProfileURL:         tmdb.BuildImageURL(tmdb.SizePosterW500, p.ProfilePath),
		KnownForDepartment: p.KnownForDepartment,
		Popularity:         p.Popularity,
	}
}

// pickTrailer prefers a YouTube trailer and falls back to the first video.
func pickTrailer(videos []tmdb.Video) string {
	for _, v := range videos {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v.Key
		}
	}
	if len(videos) > 0 {
		return videos[0].Key
	}
	return ""
}
