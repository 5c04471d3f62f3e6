package publish

import (
	"go.trai.ch/ship/internal/core/domain"
)

// Command builds the publish invocation for req.
//
// npm, pnpm and bun publish the pre-packed tarball so the bytes checked for
// conflicts are the bytes uploaded. yarn cannot publish a tarball and publishes
// the target directory. JSR goes through the jsr CLI fetched by the package manager.
func Command(req domain.PublishRequest) domain.Command {
	if req.Target.Protocol == domain.ProtocolJSR {
		return jsrCommand(req)
	}

	pm := req.PackageManager
	if pm == "" {
		pm = domain.PackageManagerNPM
	}

	cmd := domain.Command{Name: string(pm), Dir: req.Target.Directory}
	switch pm {
	case domain.PackageManagerYarn:
		cmd.Args = []string{"npm", "publish"}
	default:
		cmd.Args = []string{"publish"}
		if req.Artifact != nil {
			cmd.Args = append(cmd.Args, req.Artifact.Path)
		}
	}

	if pm != domain.PackageManagerYarn {
		cmd.Args = append(cmd.Args, "--registry", req.Target.Registry)
	}
	cmd.Args = append(cmd.Args, "--access", string(req.Target.Access))
	if req.Target.Tag != "" && req.Target.Tag != domain.DefaultTag {
		cmd.Args = append(cmd.Args, "--tag", req.Target.Tag)
	}
	if req.Target.Provenance && supportsProvenance(pm) {
		cmd.Args = append(cmd.Args, "--provenance")
	}
	if pm == domain.PackageManagerPNPM {
		cmd.Args = append(cmd.Args, "--no-git-checks")
	}
	if req.DryRun {
		cmd.Args = append(cmd.Args, "--dry-run")
	}

	cmd.Env = credentialEnv(req, pm)
	return cmd
}

func jsrCommand(req domain.PublishRequest) domain.Command {
	args := []string{"publish"}
	if req.DryRun {
		args = append(args, "--dry-run")
	}
	name, args := req.PackageManager.Dlx("jsr", args...)

	// The jsr CLI authenticates through OIDC or its own token variable, both
	// inherited from the process environment.
	return domain.Command{Name: name, Args: args, Dir: req.Target.Directory}
}

func supportsProvenance(pm domain.PackageManager) bool {
	return pm == domain.PackageManagerNPM || pm == domain.PackageManagerPNPM
}

// credentialEnv exposes the credentials of the run to one publish command.
func credentialEnv(req domain.PublishRequest, pm domain.PackageManager) []string {
	var env []string
	if req.Credentials.Npmrc != "" {
		env = append(env, "NPM_CONFIG_USERCONFIG="+req.Credentials.Npmrc)
	}
	token := req.Credentials.Token(req.Target.Registry)
	if token != "" {
		env = append(env, "NODE_AUTH_TOKEN="+token)
	}
	if pm == domain.PackageManagerYarn {
		env = append(env, "YARN_NPM_PUBLISH_REGISTRY="+req.Target.Registry)
		if token != "" {
			env = append(env, "YARN_NPM_AUTH_TOKEN="+token)
		}
	}
	return env
}
