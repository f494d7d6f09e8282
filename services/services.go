// Package services defines the container specifications for the named dev
// services. Images and container-side paths are fixed; host ports and
// passwords come from settings.
package services

import (
	"fmt"

	"github.com/docker/docker/api/types/mount"

	"devup/docker"
	"devup/settings"
)

const (
	ImageRedis    = "redis:7.2.5"
	ImagePostgres = "postgres:16.3"
	ImageMySQL    = "mysql:8.0.37"
	ImageMariaDB  = "mariadb:11.4.2"
	ImageNginx    = "nginx:1.27.0"

	restartPolicy = "unless-stopped"
)

// Names lists the known services in bootstrap order.
var Names = []string{"redis", "postgres", "mysql", "mariadb", "nginx"}

func Redis(cfg *settings.Config) docker.Container {
	return docker.Container{
		Name:          "redis",
		Image:         ImageRedis,
		Command:       []string{"redis-server", "--appendonly", "yes"},
		Mounts:        []mount.Mount{namedVolume("redis_data", "/data")},
		Ports:         map[int]int{6379: cfg.Redis.Port},
		RestartPolicy: restartPolicy,
	}
}

func Postgres(cfg *settings.Config) docker.Container {
	return docker.Container{
		Name:          "postgres",
		Image:         ImagePostgres,
		Environment:   []string{"POSTGRES_PASSWORD=" + cfg.Postgres.Password},
		Mounts:        []mount.Mount{namedVolume("postgres_data", "/var/lib/postgresql/data")},
		Ports:         map[int]int{5432: cfg.Postgres.Port},
		RestartPolicy: restartPolicy,
	}
}

func MySQL(cfg *settings.Config) docker.Container {
	return docker.Container{
		Name:          "mysql",
		Image:         ImageMySQL,
		Environment:   []string{"MYSQL_ROOT_PASSWORD=" + cfg.MySQL.Password},
		Mounts:        []mount.Mount{namedVolume("mysql_data", "/var/lib/mysql")},
		Ports:         map[int]int{3306: cfg.MySQL.Port},
		RestartPolicy: restartPolicy,
	}
}

func MariaDB(cfg *settings.Config) docker.Container {
	return docker.Container{
		Name:          "mariadb",
		Image:         ImageMariaDB,
		Environment:   []string{"MARIADB_ROOT_PASSWORD=" + cfg.MariaDB.Password},
		Mounts:        []mount.Mount{namedVolume("mariadb_data", "/var/lib/mysql")},
		Ports:         map[int]int{3306: cfg.MariaDB.Port},
		RestartPolicy: restartPolicy,
	}
}

func Nginx(cfg *settings.Config) docker.Container {
	html := namedVolume("nginx_html", "/usr/share/nginx/html")
	html.ReadOnly = true

	return docker.Container{
		Name:          "nginx",
		Image:         ImageNginx,
		Mounts:        []mount.Mount{html},
		Ports:         map[int]int{80: cfg.Nginx.Port},
		RestartPolicy: restartPolicy,
	}
}

func ByName(cfg *settings.Config, name string) (docker.Container, error) {
	switch name {
	case "redis":
		return Redis(cfg), nil
	case "postgres":
		return Postgres(cfg), nil
	case "mysql":
		return MySQL(cfg), nil
	case "mariadb":
		return MariaDB(cfg), nil
	case "nginx":
		return Nginx(cfg), nil
	}

	return docker.Container{}, fmt.Errorf("unknown service %q (known: %v)", name, Names)
}

func All(cfg *settings.Config) []docker.Container {
	containers := make([]docker.Container, 0, len(Names))
	for _, name := range Names {
		c, _ := ByName(cfg, name)
		containers = append(containers, c)
	}

	return containers
}

func namedVolume(name string, target string) mount.Mount {
	return mount.Mount{
		Type:   mount.TypeVolume,
		Source: name,
		Target: target,
	}
}
